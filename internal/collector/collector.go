package collector

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/conradoqg/cloudstatus/internal/providers"
)

// Exporter exposes the latest snapshot as Prometheus metrics. It never
// triggers fetches itself.
type Exporter struct {
	store   *Store
	configs []providers.ProviderConfig

	info       *prometheus.Desc
	up         *prometheus.Desc
	statusCode *prometheus.Desc
	fetchDur   *prometheus.Desc
	fetchOK    *prometheus.Desc
	incidents  *prometheus.Desc
	lastCycle  *prometheus.Desc
}

func NewExporter(store *Store, configs []providers.ProviderConfig) *Exporter {
	return &Exporter{
		store:   store,
		configs: configs,
		info: prometheus.NewDesc(
			"cloudstatus_provider_info",
			"Static provider info; value is 1",
			[]string{"provider", "name", "format", "url"}, nil,
		),
		up: prometheus.NewDesc(
			"cloudstatus_provider_up",
			"Provider operational status (1=operational, 0=not)",
			[]string{"provider"}, nil,
		),
		statusCode: prometheus.NewDesc(
			"cloudstatus_provider_status_code",
			"Provider normalized status code (0=unknown,1=operational,2=degraded,3=partial_outage,4=major_outage)",
			[]string{"provider", "status"}, nil,
		),
		fetchDur: prometheus.NewDesc(
			"cloudstatus_fetch_duration_seconds",
			"Duration of the provider fetch in the last cycle",
			[]string{"provider"}, nil,
		),
		fetchOK: prometheus.NewDesc(
			"cloudstatus_fetch_success",
			"Fetch success in the last cycle (1=ok)",
			[]string{"provider"}, nil,
		),
		incidents: prometheus.NewDesc(
			"cloudstatus_open_incidents",
			"Incidents reported by the provider in the last cycle (capped at 5)",
			[]string{"provider"}, nil,
		),
		lastCycle: prometheus.NewDesc(
			"cloudstatus_last_cycle_timestamp_seconds",
			"Unix time the last aggregation cycle completed",
			nil, nil,
		),
	}
}

func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.info
	ch <- e.up
	ch <- e.statusCode
	ch <- e.fetchDur
	ch <- e.fetchOK
	ch <- e.incidents
	ch <- e.lastCycle
}

func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	for _, pc := range e.configs {
		ch <- prometheus.MustNewConstMetric(e.info, prometheus.GaugeValue, 1, pc.ID, pc.Name, string(pc.Format), pc.URL)
	}
	snap := e.store.Load()
	if snap == nil {
		// nothing to expose yet
		return
	}
	ch <- prometheus.MustNewConstMetric(e.lastCycle, prometheus.GaugeValue, float64(snap.CompletedAt.Unix()))
	for i, p := range snap.Providers {
		st := snap.Stats[i]
		ch <- prometheus.MustNewConstMetric(e.fetchDur, prometheus.GaugeValue, st.Duration.Seconds(), p.ID)
		if st.Err != nil {
			ch <- prometheus.MustNewConstMetric(e.fetchOK, prometheus.GaugeValue, 0, p.ID)
		} else {
			ch <- prometheus.MustNewConstMetric(e.fetchOK, prometheus.GaugeValue, 1, p.ID)
			ch <- prometheus.MustNewConstMetric(e.incidents, prometheus.GaugeValue, float64(len(p.Incidents)), p.ID)
		}
		up := 0.0
		if p.Status == providers.StatusOperational {
			up = 1.0
		}
		ch <- prometheus.MustNewConstMetric(e.up, prometheus.GaugeValue, up, p.ID)
		ch <- prometheus.MustNewConstMetric(e.statusCode, prometheus.GaugeValue, float64(mapCode(p.Status)), p.ID, p.Status.String())
	}
}

func mapCode(s providers.ProviderStatus) int {
	switch s {
	case providers.StatusOperational:
		return 1
	case providers.StatusDegraded:
		return 2
	case providers.StatusPartialOutage:
		return 3
	case providers.StatusMajorOutage:
		return 4
	default:
		return 0
	}
}
