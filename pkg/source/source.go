// Package source supplies report attachments to the pipeline
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pyhub-apps/callreport-golang/pkg/report"
)

// Content types accepted for report attachments
const (
	ContentTypePDF         = "application/pdf"
	ContentTypeOctetStream = "application/octet-stream"
)

// Attachment is one candidate report file
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Source fetches a batch of attachments
type Source interface {
	Fetch(ctx context.Context) ([]Attachment, error)
}

// IsReport reports whether a looks like a call-center report export: a PDF
// (or untyped binary) whose name follows the export naming
func IsReport(a Attachment) bool {
	contentType := strings.ToLower(strings.TrimSpace(a.ContentType))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}

	switch contentType {
	case ContentTypePDF, ContentTypeOctetStream:
	case "":
		if !strings.HasSuffix(strings.ToLower(a.FileName), ".pdf") {
			return false
		}
	default:
		return false
	}
	return report.MatchesReportName(a.FileName)
}

// Filter returns the attachments that are reports, and how many were dropped
func Filter(attachments []Attachment) ([]Attachment, int) {
	kept := make([]Attachment, 0, len(attachments))
	for _, a := range attachments {
		if IsReport(a) {
			kept = append(kept, a)
		}
	}
	return kept, len(attachments) - len(kept)
}

// DirSource reads every report-named PDF in a directory
type DirSource struct {
	dir    string
	logger zerolog.Logger
}

// NewDirSource creates a source over dir
func NewDirSource(dir string, logger zerolog.Logger) *DirSource {
	return &DirSource{dir: dir, logger: logger}
}

func (s *DirSource) Fetch(ctx context.Context) ([]Attachment, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(strings.ToLower(e.Name()), ".pdf") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	attachments := make([]Attachment, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, &report.FileError{FileName: name, Err: err}
		}
		attachments = append(attachments, Attachment{
			FileName:    name,
			ContentType: ContentTypePDF,
			Data:        data,
		})
	}

	s.logger.Debug().Str("dir", s.dir).Int("files", len(attachments)).Msg("fetched attachments")
	return attachments, nil
}

// StaticSource serves a fixed set of attachments
type StaticSource []Attachment

func (s StaticSource) Fetch(ctx context.Context) ([]Attachment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]Attachment(nil), s...), nil
}
