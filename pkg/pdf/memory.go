package pdf

import "fmt"

// BackendMemory names documents assembled from fragments already in memory
const BackendMemory = "memory"

// memoryDocument is a Document over pages built with NewPage
type memoryDocument struct {
	pages []Page
}

// NewDocument assembles a Document from pages produced elsewhere
func NewDocument(pages ...Page) Document {
	return &memoryDocument{pages: pages}
}

// DocumentFromFragments builds a Letter-sized page per fragment slice
func DocumentFromFragments(pages ...[]Fragment) Document {
	out := make([]Page, len(pages))
	for i, fragments := range pages {
		out[i] = NewPage(i+1, 612, 792, fragments)
	}
	return NewDocument(out...)
}

func (d *memoryDocument) Backend() string {
	return BackendMemory
}

func (d *memoryDocument) GetPages() []Page {
	return d.pages
}

func (d *memoryDocument) GetPage(index int) (Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(d.pages))
	}
	return d.pages[index], nil
}

func (d *memoryDocument) PageCount() int {
	return len(d.pages)
}

func (d *memoryDocument) Close() error {
	d.pages = nil
	return nil
}
