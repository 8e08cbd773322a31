package pdf

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pyhub-apps/callreport-golang/pkg/report"
)

// Inspect reads and validates the document structure with pdfcpu without
// decoding any text
func Inspect(data []byte) (info Info, err error) {
	defer recoverBackend("pdfcpu", &err)

	if len(data) == 0 {
		return Info{}, report.ErrEmptyDocument
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := api.ValidateContext(ctx); err != nil {
		return Info{}, fmt.Errorf("invalid PDF: %w", err)
	}

	return Info{PageCount: ctx.PageCount}, nil
}

// OpenOption is a function that modifies how a document is opened
type OpenOption func(*openConfig)

type openConfig struct {
	validate  bool
	fragments []FragmentOption
}

// WithValidation runs Inspect before any text backend is tried
func WithValidation(enabled bool) OpenOption {
	return func(c *openConfig) {
		c.validate = enabled
	}
}

// WithFragmentOptions passes glyph merging options to the text backends
func WithFragmentOptions(opts ...FragmentOption) OpenOption {
	return func(c *openConfig) {
		c.fragments = append(c.fragments, opts...)
	}
}

// Open parses an in-memory PDF and returns a Document
func Open(data []byte, opts ...OpenOption) (Document, error) {
	cfg := &openConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(data) == 0 {
		return nil, report.ErrEmptyDocument
	}

	if cfg.validate {
		if _, err := Inspect(data); err != nil {
			return nil, err
		}
	}

	// Try ledongthuc implementation first as it has the most accurate text extraction
	doc, err := OpenWithLedongthuc(data, cfg.fragments...)
	if err == nil {
		return doc, nil
	}

	// Fallback to dslipak implementation
	doc, fallbackErr := OpenWithDslipak(data, cfg.fragments...)
	if fallbackErr == nil {
		return doc, nil
	}

	return nil, fmt.Errorf("%w: %w", report.ErrNoBackend, errors.Join(err, fallbackErr))
}

// recoverBackend turns a panic inside a third-party reader into an error
func recoverBackend(backend string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s backend panicked: %v", backend, r)
	}
}
