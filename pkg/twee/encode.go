package twee

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the TiddlyWiki timestamp format (YYYYMMDDhhmm).
const dateLayout = "200601021504"

var (
	textEncoder = strings.NewReplacer(
		`\`, `\s`,
		"\r\n", `\n`,
		"\n", `\n`,
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	textDecoder = strings.NewReplacer(
		`\n`, "\n",
		`\s`, `\`,
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&amp;", "&",
	)
)

func encodeText(text string) string { return textEncoder.Replace(text) }
func decodeText(text string) string { return textDecoder.Replace(text) }

func encodeDate(t time.Time) string { return t.UTC().Format(dateLayout) }

func decodeDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// ToTwee renders the tiddler as a Twee passage.
func (t *Tiddler) ToTwee() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, ":: %s", t.Title)
	if len(t.Tags) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(t.Tags, " "))
	}
	fmt.Fprintf(&sb, "\n%s\n\n\n", t.Text)
	return sb.String()
}

// ToHTML renders the tiddler as a TiddlyWiki store div.
func (t *Tiddler) ToHTML(author string) string {
	return fmt.Sprintf(`<div tiddler="%s" tags="%s" modified="%s" created="%s" modifier="%s">%s</div>`,
		t.Title, strings.Join(t.Tags, " "),
		encodeDate(t.Modified), encodeDate(t.Created), author,
		encodeText(t.Text))
}

// ToTwee renders the whole story as Twee source.
func (s *Story) ToTwee() string {
	var sb strings.Builder
	for _, t := range s.Tiddlers() {
		sb.WriteString(t.ToTwee())
	}
	return sb.String()
}

// ToHTML renders the tiddlers as a TiddlyWiki store area, readable again by
// AddHTML.
func (s *Story) ToHTML() string {
	var sb strings.Builder
	sb.WriteString(`<html><body><div id="storeArea">`)
	for _, t := range s.Tiddlers() {
		sb.WriteString(t.ToHTML(s.Author))
	}
	sb.WriteString("</div>\n</html>")
	return sb.String()
}
