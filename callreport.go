// Package callreport extracts call-center activity from report PDFs and
// reconciles overlapping reports into one time series
package callreport

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pyhub-apps/callreport-golang/pkg/extract"
	"github.com/pyhub-apps/callreport-golang/pkg/pdf"
	"github.com/pyhub-apps/callreport-golang/pkg/reconcile"
	"github.com/pyhub-apps/callreport-golang/pkg/report"
)

// Re-export types for the public API
type (
	ActivityRecord = report.ActivityRecord
	ReportFile     = report.ReportFile
	Series         = report.Series
	Precision      = report.Precision
	RecencyFunc    = report.RecencyFunc
	FileError      = report.FileError
	Document       = pdf.Document
	Page           = pdf.Page
	Fragment       = pdf.Fragment
	OpenOption     = pdf.OpenOption
)

// Re-export functions
var (
	ParseFileName        = report.ParseFileName
	MatchesReportName    = report.MatchesReportName
	CompareByFileName    = report.CompareByFileName
	CompareByGeneratedAt = report.CompareByGeneratedAt
	ExtractPage          = extract.ExtractPage
	ExtractDocument      = extract.ExtractDocument
	Reconcile            = reconcile.Reconcile
	WithValidation       = pdf.WithValidation
)

// Open parses an in-memory PDF, trying ledongthuc/pdf first and dslipak/pdf second
func Open(data []byte, opts ...OpenOption) (Document, error) {
	return pdf.Open(data, opts...)
}

// ExtractFile opens one report and extracts its activity records. The
// generation time is read from name.
func ExtractFile(name string, data []byte, opts ...OpenOption) (ReportFile, error) {
	doc, err := pdf.Open(data, opts...)
	if err != nil {
		return ReportFile{}, &report.FileError{FileName: name, Err: err}
	}
	defer doc.Close()

	return report.NewReportFile(name, extract.New().ExtractFrom(doc).Records), nil
}

// ExtractPath reads and extracts the report at path
func ExtractPath(path string, opts ...OpenOption) (ReportFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ReportFile{}, fmt.Errorf("failed to read report: %w", err)
	}
	return ExtractFile(filepath.Base(path), data, opts...)
}
