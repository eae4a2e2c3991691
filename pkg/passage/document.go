package passage

import (
	"log/slog"

	"github.com/haroldo-ok/twee2sam/pkg/twee"
)

// Document is the ordered set of parsed passages of a story.
type Document struct {
	order    []string
	passages map[string]*Passage
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{passages: make(map[string]*Passage)}
}

// Add appends p, keeping discovery order. A title that is already present
// is not replaced.
func (d *Document) Add(p *Passage) bool {
	if _, ok := d.passages[p.Title]; ok {
		return false
	}
	d.passages[p.Title] = p
	d.order = append(d.order, p.Title)
	return true
}

// Get looks a passage up by title.
func (d *Document) Get(title string) (*Passage, bool) {
	p, ok := d.passages[title]
	return p, ok
}

// Passages returns the passages in discovery order.
func (d *Document) Passages() []*Passage {
	out := make([]*Passage, len(d.order))
	for i, title := range d.order {
		out[i] = d.passages[title]
	}
	return out
}

// Len returns the number of passages.
func (d *Document) Len() int { return len(d.order) }

// FromStory parses every tiddler of story.
func FromStory(story *twee.Story, log *slog.Logger) *Document {
	doc := NewDocument()
	for _, t := range story.Tiddlers() {
		doc.Add(ParsePassage(t.Title, t.Text, t.Tags, log))
	}
	return doc
}
