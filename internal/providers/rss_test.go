package providers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const awsFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Amazon Web Services Service Status</title>
    <item>
      <title>Service disruption: Increased Error Rates</title>
      <link>https://health.aws.amazon.com/health/status#ec2-us-east-1</link>
      <pubDate>Tue, 02 Jan 2024 10:00:00 GMT</pubDate>
      <guid isPermaLink="false">https://health.aws.amazon.com/health/status#ec2-us-east-1_1704189600</guid>
      <description>We are investigating increased error rates&nbsp;for EC2 APIs.</description>
    </item>
  </channel>
</rss>`

func TestRSSFeed(t *testing.T) {
	res := ParseRSS([]byte(awsFeed), fixedNow)
	require.Equal(t, StatusPartialOutage, res.Status)
	require.Len(t, res.Incidents, 1)
	inc := res.Incidents[0]
	require.Equal(t, "https://health.aws.amazon.com/health/status#ec2-us-east-1_1704189600", inc.ID)
	require.Equal(t, "Service disruption: Increased Error Rates", inc.Name)
	require.Equal(t, "investigating", inc.Status)
	require.Equal(t, "minor", inc.Impact)
	require.Equal(t, ts("2024-01-02T10:00:00Z"), inc.CreatedAt)
	require.Equal(t, inc.CreatedAt, inc.UpdatedAt)
	require.Equal(t, "https://health.aws.amazon.com/health/status#ec2-us-east-1", inc.Shortlink)
	require.Len(t, inc.Updates, 1)
	require.Equal(t, "We are investigating increased error rates\u00a0for EC2 APIs.", inc.Updates[0].Body)
	require.Equal(t, inc.UpdatedAt, inc.Updates[0].CreatedAt)
}

func TestRSSEmptyChannelIsOperational(t *testing.T) {
	res := ParseRSS([]byte(`<rss version="2.0"><channel><title>Azure</title></channel></rss>`), fixedNow)
	require.Equal(t, StatusOperational, res.Status)
	require.Empty(t, res.Incidents)
}

func TestRSSUnparsableDegradesToOperational(t *testing.T) {
	for _, body := range []string{"", "not xml at all", `<rss version="2.0"></rss>`, `{"json":true}`} {
		res := ParseRSS([]byte(body), fixedNow)
		require.Equal(t, StatusOperational, res.Status, "body %q", body)
		require.NotNil(t, res.Incidents)
		require.Empty(t, res.Incidents)
	}
}

func TestRSSItemFallbacks(t *testing.T) {
	res := ParseRSS([]byte(`<rss><channel><item></item></channel></rss>`), fixedNow)
	require.Equal(t, StatusPartialOutage, res.Status)
	inc := res.Incidents[0]
	require.Equal(t, "Unknown Incident", inc.Name)
	require.Equal(t, fixedNow, inc.CreatedAt)
	require.Equal(t, fixedNow, inc.UpdatedAt)
	require.Equal(t, noDescription, inc.Updates[0].Body)
	_, err := uuid.Parse(inc.ID)
	require.NoError(t, err)
}

func TestRSSItemIDs(t *testing.T) {
	feed := `<rss><channel>
		<item><title>A</title><link>https://status.example.com/a</link></item>
		<item><title>B</title><pubDate>Tue, 02 Jan 2024 10:00:00 GMT</pubDate></item>
	</channel></rss>`
	first := ParseRSS([]byte(feed), fixedNow)
	second := ParseRSS([]byte(feed), fixedNow)
	require.Equal(t, "https://status.example.com/a", first.Incidents[0].ID)
	// derived ids are stable across polls
	require.Equal(t, first.Incidents[1].ID, second.Incidents[1].ID)
	require.NotEqual(t, first.Incidents[0].ID, first.Incidents[1].ID)

	// items with nothing to derive from get distinct random ids
	empty := ParseRSS([]byte(`<rss><channel><item/><item/></channel></rss>`), fixedNow)
	require.NotEqual(t, empty.Incidents[0].ID, empty.Incidents[1].ID)
}

func TestRSSCapsIncidents(t *testing.T) {
	var b strings.Builder
	b.WriteString("<rss><channel>")
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "<item><guid>%d</guid><title>item %d</title></item>", i, i)
	}
	b.WriteString("</channel></rss>")
	res := ParseRSS([]byte(b.String()), fixedNow)
	require.Equal(t, StatusPartialOutage, res.Status)
	require.Len(t, res.Incidents, 5)
	require.Equal(t, "0", res.Incidents[0].ID)
}

func TestRSSLatin1Charset(t *testing.T) {
	body := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><rss><channel><item><title>Caf\xe9 outage</title></item></channel></rss>")
	res := ParseRSS(body, fixedNow)
	require.Len(t, res.Incidents, 1)
	require.Equal(t, "Café outage", res.Incidents[0].Name)
}
