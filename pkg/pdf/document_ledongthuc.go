package pdf

import (
	"bytes"
	"fmt"

	lpdf "github.com/ledongthuc/pdf"
)

// BackendLedongthuc names the ledongthuc/pdf backend
const BackendLedongthuc = "ledongthuc"

// LedongthucDocument implements the Document interface using ledongthuc/pdf library
type LedongthucDocument struct {
	reader *lpdf.Reader
	pages  []Page
}

// OpenWithLedongthuc parses an in-memory PDF using the ledongthuc/pdf library
func OpenWithLedongthuc(data []byte, opts ...FragmentOption) (doc Document, err error) {
	defer recoverBackend(BackendLedongthuc, &err)

	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with ledongthuc: %w", err)
	}

	cfg := defaultFragmentConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	d := &LedongthucDocument{reader: r}
	if err := d.initializePages(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize pages: %w", err)
	}

	return d, nil
}

// initializePages reads every page's text up front
func (d *LedongthucDocument) initializePages(cfg *fragmentConfig) error {
	pageCount := d.reader.NumPage()
	d.pages = make([]Page, 0, pageCount)

	for i := 1; i <= pageCount; i++ {
		page := d.reader.Page(i)
		if page.V.IsNull() {
			return fmt.Errorf("page %d is missing", i)
		}
		d.pages = append(d.pages, newLedongthucPage(page, i, cfg))
	}

	return nil
}

// Backend returns the backend name
func (d *LedongthucDocument) Backend() string {
	return BackendLedongthuc
}

// GetPages returns all pages in the document
func (d *LedongthucDocument) GetPages() []Page {
	return d.pages
}

// GetPage returns a specific page by index (0-based)
func (d *LedongthucDocument) GetPage(index int) (Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(d.pages))
	}
	return d.pages[index], nil
}

// PageCount returns the total number of pages
func (d *LedongthucDocument) PageCount() int {
	return len(d.pages)
}

// Close releases resources associated with the document
func (d *LedongthucDocument) Close() error {
	d.reader = nil
	d.pages = nil
	return nil
}

func newLedongthucPage(page lpdf.Page, pageNumber int, cfg *fragmentConfig) *textPage {
	// Default to US Letter
	width := 612.0
	height := 792.0

	mediaBox := page.V.Key("MediaBox")
	if mediaBox.Kind() == lpdf.Array && mediaBox.Len() == 4 {
		width = mediaBox.Index(2).Float64() - mediaBox.Index(0).Float64()
		height = mediaBox.Index(3).Float64() - mediaBox.Index(1).Float64()
	}

	content := page.Content()
	glyphs := make([]glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, glyph{S: t.S, X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize})
	}

	return &textPage{
		pageNumber: pageNumber,
		width:      width,
		height:     height,
		fragments:  mergeGlyphs(glyphs, height, cfg),
	}
}
