// Package feed renders the aggregated incidents as an RSS 2.0 document.
package feed

import (
	"encoding/xml"
	"fmt"
	"sort"
	"time"

	"github.com/conradoqg/cloudstatus/internal/providers"
)

// MaxItems is the number of most recently updated incidents kept in the feed.
const MaxItems = 50

// pubDateLayout is RFC 1123 with a literal GMT zone, as RSS readers expect.
const pubDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// Channel is the feed-level metadata.
type Channel struct {
	Title       string
	Description string
	Link        string
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Description   string    `xml:"description"`
	Link          string    `xml:"link"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Description string  `xml:"description"`
	PubDate     string  `xml:"pubDate"`
	GUID        rssGUID `xml:"guid"`
	Link        string  `xml:"link,omitempty"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type entry struct {
	provider string
	incident providers.Incident
}

// Project flattens the incidents of snapshot into an RSS feed, newest update
// first. The output depends only on its arguments; now is used for
// lastBuildDate alone.
func Project(snapshot []providers.Provider, ch Channel, now time.Time) ([]byte, error) {
	var entries []entry
	for _, p := range snapshot {
		for _, inc := range p.Incidents {
			entries = append(entries, entry{provider: p.Name, incident: inc})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].incident.UpdatedAt.After(entries[j].incident.UpdatedAt)
	})
	if len(entries) > MaxItems {
		entries = entries[:MaxItems]
	}

	doc := rssDoc{
		Version: "2.0",
		Channel: rssChannel{
			Title:         ch.Title,
			Description:   ch.Description,
			Link:          ch.Link,
			LastBuildDate: formatDate(now),
			Items:         make([]rssItem, 0, len(entries)),
		},
	}
	for _, e := range entries {
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:       fmt.Sprintf("%s: %s", e.provider, e.incident.Name),
			Description: fmt.Sprintf("%s - Impact: %s", e.incident.Status, e.incident.Impact),
			PubDate:     formatDate(e.incident.UpdatedAt),
			GUID:        rssGUID{IsPermaLink: "false", Value: e.incident.ID},
			Link:        e.incident.Shortlink,
		})
	}

	b, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal rss: %w", err)
	}
	return append([]byte(xml.Header), append(b, '\n')...), nil
}

func formatDate(t time.Time) string { return t.UTC().Format(pubDateLayout) }
