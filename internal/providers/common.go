package providers

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ProviderStatus represents a cross-vendor status bucket.
type ProviderStatus int

const (
	// StatusUnknown is reserved for fetch failures; parsers never return it.
	StatusUnknown ProviderStatus = iota
	StatusOperational
	StatusDegraded
	StatusPartialOutage
	StatusMajorOutage
)

func (s ProviderStatus) String() string {
	switch s {
	case StatusOperational:
		return "operational"
	case StatusDegraded:
		return "degraded"
	case StatusPartialOutage:
		return "partial_outage"
	case StatusMajorOutage:
		return "major_outage"
	default:
		return "unknown"
	}
}

// Severity returns the ordinal of s. Unknown is not ordered against the
// other statuses, so ok is false for it.
func (s ProviderStatus) Severity() (int, bool) {
	if s == StatusUnknown {
		return 0, false
	}
	return int(s) - 1, true
}

func (s ProviderStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *ProviderStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "operational":
		*s = StatusOperational
	case "degraded":
		*s = StatusDegraded
	case "partial_outage":
		*s = StatusPartialOutage
	case "major_outage":
		*s = StatusMajorOutage
	case "unknown":
		*s = StatusUnknown
	default:
		return fmt.Errorf("unknown provider status %q", string(b))
	}
	return nil
}

// Worst folds statuses into the most severe one. Unknown entries are
// skipped; if every entry is unknown (or there are none) the result is unknown.
func Worst(statuses ...ProviderStatus) ProviderStatus {
	out := StatusUnknown
	best := -1
	for _, s := range statuses {
		if sev, ok := s.Severity(); ok && sev > best {
			best, out = sev, s
		}
	}
	return out
}

// Format tags the upstream schema family of a provider endpoint.
type Format string

const (
	FormatStatuspage Format = "statuspage"
	FormatGoogle     Format = "google"
	FormatSalesforce Format = "salesforce"
	FormatSlack      Format = "slack"
	FormatRSS        Format = "rss"
)

// ParseFormat validates a format tag coming from configuration.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatStatuspage, FormatGoogle, FormatSalesforce, FormatSlack, FormatRSS:
		return f, nil
	default:
		return "", fmt.Errorf("unknown provider format: %q", s)
	}
}

// IsXML reports whether the format is served over the XML transport.
func (f Format) IsXML() bool { return f == FormatRSS }

// ProviderConfig is the static description of one monitored provider.
type ProviderConfig struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	APIURL      string `json:"apiUrl"`
	Format      Format `json:"type"`
	// InsecureSkipVerify disables TLS certificate validation for this
	// provider's endpoint. Some upstream feeds ship broken chains.
	InsecureSkipVerify bool `json:"-"`
}

type IncidentUpdate struct {
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
}

// Incident is one vendor-reported disruption. Status and Impact carry the
// vendor's own wording, not a ProviderStatus.
type Incident struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Status    string           `json:"status"`
	Impact    string           `json:"impact"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Shortlink string           `json:"shortlink,omitempty"`
	Updates   []IncidentUpdate `json:"incident_updates,omitempty"`
}

// Result is what a format parser extracts from one payload.
type Result struct {
	Status    ProviderStatus
	Incidents []Incident
}

// Provider is the aggregate exposed to consumers for one configured provider.
type Provider struct {
	ProviderConfig
	Status      ProviderStatus `json:"status"`
	Incidents   []Incident     `json:"incidents"`
	LastUpdated time.Time      `json:"lastUpdated"`
	Error       string         `json:"error,omitempty"`
}

// maxIncidents caps the incidents kept per provider.
const maxIncidents = 5

// epoch is the fallback for missing or unparsable vendor timestamps.
var epoch = time.Unix(0, 0).UTC()

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC822Z,
	time.RFC822,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime accepts the timestamp shapes the supported vendors emit and
// returns fallback when s is empty or matches none of them.
func parseTime(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return fallback
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// NewHTTPClient builds a client with the given timeout. insecure turns off
// certificate verification.
func NewHTTPClient(timeout time.Duration, insecure bool) *http.Client {
	c := &http.Client{Timeout: timeout}
	if insecure {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in per provider
		c.Transport = tr
	}
	return c
}
