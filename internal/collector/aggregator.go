package collector

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/conradoqg/cloudstatus/internal/logx"
	"github.com/conradoqg/cloudstatus/internal/providers"
	"github.com/conradoqg/cloudstatus/internal/registry"
)

// StatusFetcher retrieves and normalizes one provider. *providers.Fetcher
// is the production implementation.
type StatusFetcher interface {
	Fetch(ctx context.Context, pc providers.ProviderConfig) (providers.Result, error)
}

// FetchStat records how one provider's fetch went during a cycle.
type FetchStat struct {
	Duration time.Duration
	Err      error
}

// Snapshot is the immutable outcome of one aggregation cycle. Providers and
// Stats are index-aligned with the configs the cycle ran over.
type Snapshot struct {
	Providers   []providers.Provider
	Stats       []FetchStat
	CompletedAt time.Time
}

// Overall is the most severe known status across all providers.
func (s *Snapshot) Overall() providers.ProviderStatus {
	statuses := make([]providers.ProviderStatus, len(s.Providers))
	for i, p := range s.Providers {
		statuses[i] = p.Status
	}
	return providers.Worst(statuses...)
}

// Aggregator runs aggregation cycles over a set of provider configs.
type Aggregator struct {
	fetcher StatusFetcher
	now     func() time.Time
}

func NewAggregator(f StatusFetcher) *Aggregator {
	return &Aggregator{fetcher: f, now: time.Now}
}

// FetchAll fetches every provider concurrently and returns exactly one entry
// per config, in config order. It never fails: a provider whose fetch fails
// is reported with status unknown and no incidents.
func (a *Aggregator) FetchAll(ctx context.Context, configs []providers.ProviderConfig) []providers.Provider {
	return a.Cycle(ctx, configs).Providers
}

// Cycle is FetchAll plus per-provider fetch statistics.
func (a *Aggregator) Cycle(ctx context.Context, configs []providers.ProviderConfig) *Snapshot {
	snap := &Snapshot{
		Providers: make([]providers.Provider, len(configs)),
		Stats:     make([]FetchStat, len(configs)),
	}
	// Workers never return an error, so one failure cannot cancel its siblings.
	var g errgroup.Group
	for i, pc := range configs {
		g.Go(func() error {
			start := time.Now()
			res, err := a.fetchOne(ctx, pc)
			snap.Stats[i] = FetchStat{Duration: time.Since(start), Err: err}
			if err != nil {
				logx.Warnw("provider fetch failed", "provider", pc.ID, "error", err.Error())
				snap.Providers[i] = failed(pc, err, a.now())
				return nil
			}
			if res.Incidents == nil {
				res.Incidents = []providers.Incident{}
			}
			snap.Providers[i] = providers.Provider{ProviderConfig: pc, Status: res.Status, Incidents: res.Incidents}
			return nil
		})
	}
	_ = g.Wait()

	snap.CompletedAt = a.now()
	for i := range snap.Providers {
		if snap.Stats[i].Err == nil {
			snap.Providers[i].LastUpdated = snap.CompletedAt
		}
	}
	return snap
}

// FetchOne runs a single-provider cycle for id. Only an unknown id is an
// error; fetch failures are folded into the returned Provider.
func (a *Aggregator) FetchOne(ctx context.Context, reg *registry.Registry, id string) (providers.Provider, error) {
	pc, err := reg.Lookup(id)
	if err != nil {
		return providers.Provider{}, err
	}
	return a.Cycle(ctx, []providers.ProviderConfig{pc}).Providers[0], nil
}

func (a *Aggregator) fetchOne(ctx context.Context, pc providers.ProviderConfig) (res providers.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic while fetching: %v", pc.ID, r)
		}
	}()
	return a.fetcher.Fetch(ctx, pc)
}

func failed(pc providers.ProviderConfig, err error, at time.Time) providers.Provider {
	return providers.Provider{
		ProviderConfig: pc,
		Status:         providers.StatusUnknown,
		Incidents:      []providers.Incident{},
		LastUpdated:    at,
		Error:          err.Error(),
	}
}
