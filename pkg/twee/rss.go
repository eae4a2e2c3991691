package twee

import (
	"encoding/xml"
	"sort"
	"time"

	"github.com/google/uuid"
)

// guidNamespace scopes the name-based UUIDs given to RSS items, so a
// passage keeps the same GUID across exports.
var guidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/haroldo-ok/twee2sam"))

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	PubDate     string    `xml:"pubDate"`
	Generator   string    `xml:"generator"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	GUID        rssGUID `xml:"guid"`
	PubDate     string  `xml:"pubDate"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// ItemGUID returns the stable identifier of a passage in RSS output.
func ItemGUID(title string) string {
	return uuid.NewSHA1(guidNamespace, []byte(title)).String()
}

// ToRSS renders an RSS 2.0 feed of the numItems most recently modified
// tiddlers. Story metadata is taken from the StoryTitle/SiteTitle,
// StoryUrl/SiteUrl and StorySubtitle/SiteSubtitle passages.
func (s *Story) ToRSS(numItems int) ([]byte, error) {
	tiddlers := s.Tiddlers()
	sort.SliceStable(tiddlers, func(i, j int) bool {
		return tiddlers[i].Modified.After(tiddlers[j].Modified)
	})
	if numItems >= 0 && len(tiddlers) > numItems {
		tiddlers = tiddlers[:numItems]
	}

	doc := rssDocument{
		Version: "2.0",
		Channel: rssChannel{
			Title:       s.TryGetting([]string{"StoryTitle", "SiteTitle"}, "Untitled Story"),
			Link:        s.TryGetting([]string{"StoryUrl", "SiteUrl"}, ""),
			Description: s.TryGetting([]string{"StorySubtitle", "SiteSubtitle"}, ""),
			PubDate:     s.Now().UTC().Format(time.RFC1123Z),
			Generator:   "twee2sam",
		},
	}
	for _, t := range tiddlers {
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:       t.Title,
			Description: t.Text,
			GUID:        rssGUID{Value: ItemGUID(t.Title)},
			PubDate:     t.Modified.UTC().Format(time.RFC1123Z),
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
