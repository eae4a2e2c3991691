// Package twee holds the story container: passages ("tiddlers") read from
// Twee source or a TiddlyWiki HTML store, and the writers that turn a story
// back into Twee, TiddlyWiki HTML or RSS.
package twee

import (
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// Tiddler is a single passage of a story.
type Tiddler struct {
	Title    string
	Tags     []string
	Text     string
	Created  time.Time
	Modified time.Time
}

// Story is an ordered collection of tiddlers keyed by title.
type Story struct {
	Author string

	// Now stamps tiddlers read from Twee source. Defaults to time.Now.
	Now func() time.Time
	Log *slog.Logger

	order    []string
	tiddlers map[string]*Tiddler
}

// NewStory creates an empty story written by author.
func NewStory(author string) *Story {
	return &Story{
		Author:   author,
		Now:      time.Now,
		Log:      slog.Default(),
		tiddlers: make(map[string]*Tiddler),
	}
}

// Len returns the number of tiddlers.
func (s *Story) Len() int { return len(s.order) }

// Tiddlers returns the tiddlers in the order they were first added.
func (s *Story) Tiddlers() []*Tiddler {
	out := make([]*Tiddler, len(s.order))
	for i, title := range s.order {
		out[i] = s.tiddlers[title]
	}
	return out
}

// Get looks a tiddler up by title.
func (s *Story) Get(title string) (*Tiddler, bool) {
	t, ok := s.tiddlers[title]
	return t, ok
}

// TryGetting returns the text of the first of names that exists, or def.
func (s *Story) TryGetting(names []string, def string) string {
	for _, name := range names {
		if t, ok := s.tiddlers[name]; ok {
			return t.Text
		}
	}
	return def
}

// AddTiddler adds t to the story. A tiddler whose title is already taken
// only replaces the existing one when the text is identical and t is newer;
// otherwise the first definition wins and the duplicate is reported.
func (s *Story) AddTiddler(t *Tiddler) bool {
	existing, ok := s.tiddlers[t.Title]
	if !ok {
		s.tiddlers[t.Title] = t
		s.order = append(s.order, t.Title)
		return true
	}
	if existing.Text == t.Text {
		if t.Modified.After(existing.Modified) {
			s.tiddlers[t.Title] = t
		}
		return false
	}
	s.Log.Warn("duplicate passage ignored", "passage", t.Title)
	return false
}

// AddTwee adds every passage of a Twee source file.
//
//	:: Title [tag1 tag2]
//	body text...
func (s *Story) AddTwee(source string) {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	for i, chunk := range strings.Split(source, "\n::") {
		if i == 0 {
			// text before the first header is not a passage
			if !strings.HasPrefix(chunk, "::") {
				continue
			}
			chunk = strings.TrimPrefix(chunk, "::")
		}
		if t := s.parseTwee("::" + chunk); t != nil {
			s.AddTiddler(t)
		}
	}
}

func (s *Story) parseTwee(source string) *Tiddler {
	lines := strings.Split(strings.TrimSpace(source), "\n")
	metaBits := strings.SplitN(lines[0], "[", 2)
	title := strings.Trim(metaBits[0], " :")
	if title == "" {
		return nil
	}

	now := s.Now()
	t := &Tiddler{Title: title, Created: now, Modified: now}
	if len(metaBits) > 1 {
		for _, tag := range strings.Fields(metaBits[1]) {
			if tag = strings.Trim(tag, "[]"); tag != "" {
				t.Tags = append(t.Tags, tag)
			}
		}
	}
	t.Text = strings.TrimSpace(strings.Join(lines[1:], "\n"))
	return t
}

var (
	reStoreArea = regexp.MustCompile(`(?s)<div id="storeArea">(.*)</div>\s*</html>`)
	reTitleAttr = regexp.MustCompile(`tiddler="(.*?)"`)
	reTagsAttr  = regexp.MustCompile(`tags="(.*?)"`)
	reCreated   = regexp.MustCompile(`created="(.*?)"`)
	reModified  = regexp.MustCompile(`modified="(.*?)"`)
	reDivBody   = regexp.MustCompile(`<div.*?>(.*)</div>`)
)

// AddHTML merges the tiddlers stored in a TiddlyWiki HTML file.
func (s *Story) AddHTML(source string) {
	m := reStoreArea.FindStringSubmatch(source)
	if m == nil {
		return
	}
	for _, div := range strings.Split(m[1], "<div") {
		if strings.TrimSpace(div) == "" {
			continue
		}
		s.AddTiddler(s.parseHTML("<div" + div))
	}
}

func (s *Story) parseHTML(source string) *Tiddler {
	now := s.Now()
	t := &Tiddler{Title: "untitled passage", Created: now, Modified: now}
	if m := reTitleAttr.FindStringSubmatch(source); m != nil {
		t.Title = m[1]
	}
	if m := reTagsAttr.FindStringSubmatch(source); m != nil && m[1] != "" {
		t.Tags = strings.Split(m[1], " ")
	}
	if m := reCreated.FindStringSubmatch(source); m != nil {
		if d, err := decodeDate(m[1]); err == nil {
			t.Created = d
		}
	}
	if m := reModified.FindStringSubmatch(source); m != nil {
		if d, err := decodeDate(m[1]); err == nil {
			t.Modified = d
		}
	}
	if m := reDivBody.FindStringSubmatch(source); m != nil {
		t.Text = decodeText(m[1])
	}
	return t
}
