package pdf

// Document represents an opened PDF report
type Document interface {
	// Backend names the library that decoded the document
	Backend() string

	// GetPages returns all pages in the document
	GetPages() []Page

	// GetPage returns a specific page by index (0-based)
	GetPage(index int) (Page, error)

	// PageCount returns the total number of pages
	PageCount() int

	// Close releases resources associated with the document
	Close() error
}

// Page represents a single page of positioned text
type Page interface {
	// GetPageNumber returns the page number (1-based)
	GetPageNumber() int

	// GetWidth returns the page width
	GetWidth() float64

	// GetHeight returns the page height
	GetHeight() float64

	// Fragments returns the page's text runs in content-stream order
	Fragments() []Fragment
}

// PageFragments collects the fragments of every page of doc, in page order
func PageFragments(doc Document) [][]Fragment {
	pages := doc.GetPages()
	out := make([][]Fragment, len(pages))
	for i, p := range pages {
		out[i] = p.Fragments()
	}
	return out
}
