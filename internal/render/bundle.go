package render

import (
	"endgames/internal/writer"
)

// Page is one generated artifact. Path is slash-separated and relative to
// the output root.
type Page struct {
	Path       string
	Content    string
	Executable bool
}

// Bundle holds generated pages in the order they are written. A later page
// with the same path as an earlier one overwrites it on disk.
type Bundle struct {
	pages []Page
}

// Add appends pages to the bundle.
func (b *Bundle) Add(pages ...Page) {
	b.pages = append(b.pages, pages...)
}

// Pages returns the pages in write order.
func (b *Bundle) Pages() []Page {
	return append([]Page(nil), b.pages...)
}

// Page returns the last page written at path.
func (b *Bundle) Page(path string) (Page, bool) {
	for i := len(b.pages) - 1; i >= 0; i-- {
		if b.pages[i].Path == path {
			return b.pages[i], true
		}
	}
	return Page{}, false
}

// WriteBundle writes every page in bundle order. The first error aborts the
// run; pages already written stay on disk.
func WriteBundle(b *Bundle, w *writer.Writer) error {
	for _, p := range b.pages {
		var opts []writer.Option
		if p.Executable {
			opts = append(opts, writer.Executable())
		}
		if err := w.Write(p.Path, p.Content, opts...); err != nil {
			return err
		}
	}
	return nil
}
