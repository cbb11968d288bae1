package providers

import (
	"bytes"
	"encoding/xml"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html/charset"
)

// RSS 2.0 feeds (AWS Health, Azure status). Feeds list incidents only, so
// every item is reported as an open incident.
type rssFeed struct {
	Channel *struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

const noDescription = "No description available"

// decodeRSS is lenient: HTML entities, unknown charsets and a missing channel
// all yield ok=false instead of an error.
func decodeRSS(body []byte) (rssFeed, bool) {
	var feed rssFeed
	d := xml.NewDecoder(bytes.NewReader(body))
	d.CharsetReader = charset.NewReaderLabel
	d.Strict = false
	d.AutoClose = xml.HTMLAutoClose
	d.Entity = xml.HTMLEntity
	if err := d.Decode(&feed); err != nil {
		return rssFeed{}, false
	}
	if feed.Channel == nil {
		return rssFeed{}, false
	}
	return feed, true
}

// ParseRSS never fails; an unreadable feed is reported as operational with
// no incidents.
func ParseRSS(body []byte, now time.Time) Result {
	feed, ok := decodeRSS(body)
	if !ok {
		return Result{Status: StatusOperational, Incidents: []Incident{}}
	}
	return parseRSS(feed, now)
}

func parseRSS(feed rssFeed, now time.Time) Result {
	items := feed.Channel.Items
	out := Result{Status: StatusOperational}
	if len(items) > 0 {
		out.Status = StatusPartialOutage
	}
	if len(items) > maxIncidents {
		items = items[:maxIncidents]
	}
	out.Incidents = make([]Incident, 0, len(items))
	for _, it := range items {
		title := strings.TrimSpace(it.Title)
		pubDate := strings.TrimSpace(it.PubDate)
		published := parseTime(pubDate, now.UTC())
		out.Incidents = append(out.Incidents, Incident{
			ID:        rssItemID(it, title, pubDate),
			Name:      firstNonEmpty(title, "Unknown Incident"),
			Status:    "investigating",
			Impact:    "minor",
			CreatedAt: published,
			UpdatedAt: published,
			Shortlink: strings.TrimSpace(it.Link),
			Updates: []IncidentUpdate{{
				Body:      firstNonEmpty(strings.TrimSpace(it.Description), noDescription),
				CreatedAt: published,
				Status:    "investigating",
			}},
		})
	}
	return out
}

// rssItemID prefers the feed's own identity. Without guid or link, the id is
// derived from title and publish date so it stays stable between polls; only
// an item with neither gets a random id.
func rssItemID(it rssItem, title, pubDate string) string {
	if id := firstNonEmpty(strings.TrimSpace(it.GUID), strings.TrimSpace(it.Link)); id != "" {
		return id
	}
	if title != "" || pubDate != "" {
		return uuid.NewSHA1(uuid.NameSpaceURL, []byte(title+"\n"+pubDate)).String()
	}
	return uuid.NewString()
}
