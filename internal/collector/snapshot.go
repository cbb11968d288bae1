package collector

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/conradoqg/cloudstatus/internal/logx"
	"github.com/conradoqg/cloudstatus/internal/providers"
)

// Store holds the latest published snapshot. Snapshots are replaced
// wholesale and never mutated after Publish.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

// Load returns nil until the first cycle has been published.
func (s *Store) Load() *Snapshot { return s.cur.Load() }

func (s *Store) Publish(snap *Snapshot) { s.cur.Store(snap) }

// Refresher drives aggregation cycles and publishes them to a Store.
type Refresher struct {
	agg      *Aggregator
	configs  []providers.ProviderConfig
	store    *Store
	interval time.Duration

	mu sync.Mutex // serializes cycles
}

func NewRefresher(agg *Aggregator, configs []providers.ProviderConfig, store *Store, interval time.Duration) *Refresher {
	return &Refresher{agg: agg, configs: configs, store: store, interval: interval}
}

// Refresh runs one cycle and publishes it. The cycle is detached from ctx's
// cancellation: every fetch ends only by its own timeout, so a caller that
// goes away cannot publish its cancelled fetches as unknown.
func (r *Refresher) Refresh(ctx context.Context) *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	start := time.Now()
	snap := r.agg.Cycle(context.WithoutCancel(ctx), r.configs)
	r.store.Publish(snap)
	failedCount := 0
	for _, st := range snap.Stats {
		if st.Err != nil {
			failedCount++
		}
	}
	logx.Infof("refreshed providers=%d failed=%d overall=%s took=%s",
		len(snap.Providers), failedCount, snap.Overall(), time.Since(start).Round(time.Millisecond))
	return snap
}

// Run refreshes immediately and then every interval until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	r.Refresh(ctx)
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Refresh(ctx)
		}
	}
}
