package pdf

// textPage is the Page implementation shared by the text backends
type textPage struct {
	pageNumber int
	width      float64
	height     float64
	fragments  []Fragment
}

// NewPage builds a Page from fragments that were produced elsewhere
func NewPage(pageNumber int, width, height float64, fragments []Fragment) Page {
	return &textPage{
		pageNumber: pageNumber,
		width:      width,
		height:     height,
		fragments:  fragments,
	}
}

// GetPageNumber returns the page number (1-based)
func (p *textPage) GetPageNumber() int {
	return p.pageNumber
}

// GetWidth returns the page width
func (p *textPage) GetWidth() float64 {
	return p.width
}

// GetHeight returns the page height
func (p *textPage) GetHeight() float64 {
	return p.height
}

// Fragments returns a copy of the page's fragments
func (p *textPage) Fragments() []Fragment {
	out := make([]Fragment, len(p.fragments))
	copy(out, p.fragments)
	return out
}
