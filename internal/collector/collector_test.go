package collector

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/conradoqg/cloudstatus/internal/providers"
)

func TestExporterBeforeFirstCycle(t *testing.T) {
	e := NewExporter(&Store{}, configs(2))
	// only the static info series
	require.Equal(t, 2, testutil.CollectAndCount(e))
}

func TestExporterFromSnapshot(t *testing.T) {
	cfgs := []providers.ProviderConfig{
		{ID: "github", Name: "GitHub", URL: "https://www.githubstatus.com/", Format: providers.FormatStatuspage},
		{ID: "aws", Name: "AWS", URL: "https://health.aws.amazon.com/", Format: providers.FormatRSS},
	}
	store := &Store{}
	store.Publish(&Snapshot{
		Providers: []providers.Provider{
			{ProviderConfig: cfgs[0], Status: providers.StatusPartialOutage, Incidents: []providers.Incident{{ID: "1"}, {ID: "2"}}},
			{ProviderConfig: cfgs[1], Status: providers.StatusUnknown, Incidents: []providers.Incident{}},
		},
		Stats: []FetchStat{
			{Duration: 250 * time.Millisecond},
			{Duration: time.Second, Err: errors.New("timeout")},
		},
		CompletedAt: time.Unix(1700000000, 0),
	})
	e := NewExporter(store, cfgs)

	expected := `
# HELP cloudstatus_provider_status_code Provider normalized status code (0=unknown,1=operational,2=degraded,3=partial_outage,4=major_outage)
# TYPE cloudstatus_provider_status_code gauge
cloudstatus_provider_status_code{provider="aws",status="unknown"} 0
cloudstatus_provider_status_code{provider="github",status="partial_outage"} 3
# HELP cloudstatus_fetch_success Fetch success in the last cycle (1=ok)
# TYPE cloudstatus_fetch_success gauge
cloudstatus_fetch_success{provider="aws"} 0
cloudstatus_fetch_success{provider="github"} 1
# HELP cloudstatus_open_incidents Incidents reported by the provider in the last cycle (capped at 5)
# TYPE cloudstatus_open_incidents gauge
cloudstatus_open_incidents{provider="github"} 2
# HELP cloudstatus_last_cycle_timestamp_seconds Unix time the last aggregation cycle completed
# TYPE cloudstatus_last_cycle_timestamp_seconds gauge
cloudstatus_last_cycle_timestamp_seconds 1.7e+09
`
	require.NoError(t, testutil.CollectAndCompare(e, strings.NewReader(expected),
		"cloudstatus_provider_status_code", "cloudstatus_fetch_success", "cloudstatus_open_incidents", "cloudstatus_last_cycle_timestamp_seconds"))
	// info(2) + last cycle(1) + per provider: dur, ok, up, code (+incidents for github)
	require.Equal(t, 2+1+4+5, testutil.CollectAndCount(e))
}
