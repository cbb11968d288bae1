// Package proxy serves a single provider's upstream status on demand.
package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/conradoqg/cloudstatus/internal/logx"
	"github.com/conradoqg/cloudstatus/internal/providers"
	"github.com/conradoqg/cloudstatus/internal/registry"
)

// Getter performs the raw upstream request. *providers.Fetcher implements it.
type Getter interface {
	Get(ctx context.Context, pc providers.ProviderConfig) ([]byte, error)
}

// Error is a fetch failure on a JSON provider, reported to the caller.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string { return fmt.Sprintf("fetch provider %s: %v", e.Provider, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Summary is the statuspage-like shape returned for RSS providers.
type Summary struct {
	Status    Indicator            `json:"status"`
	Incidents []providers.Incident `json:"incidents"`
}

type Indicator struct {
	Indicator   string `json:"indicator"`
	Description string `json:"description"`
}

type Proxy struct {
	reg    *registry.Registry
	getter Getter
	now    func() time.Time
}

func New(reg *registry.Registry, g Getter) *Proxy {
	return &Proxy{reg: reg, getter: g, now: time.Now}
}

// Status returns the upstream JSON for id. RSS providers are converted into
// a Summary and degrade to an all-operational Summary on any failure.
// Unknown ids yield registry.ErrProviderNotFound; other failures an *Error.
func (p *Proxy) Status(ctx context.Context, id string) (json.RawMessage, error) {
	pc, err := p.reg.Lookup(id)
	if err != nil {
		return nil, err
	}
	if pc.Format == providers.FormatRSS {
		return json.Marshal(p.rssSummary(ctx, pc))
	}
	body, err := p.getter.Get(ctx, pc)
	if err != nil {
		logx.Errorf("proxy fetch provider=%s: %v", id, err)
		return nil, &Error{Provider: id, Err: err}
	}
	if !json.Valid(body) {
		err := fmt.Errorf("%w: upstream returned non-JSON body", providers.ErrDecode)
		logx.Errorf("proxy fetch provider=%s: %v", id, err)
		return nil, &Error{Provider: id, Err: err}
	}
	return json.RawMessage(body), nil
}

func (p *Proxy) rssSummary(ctx context.Context, pc providers.ProviderConfig) Summary {
	body, err := p.getter.Get(ctx, pc)
	if err != nil {
		logx.Warnf("proxy rss provider=%s degraded to operational: %v", pc.ID, err)
		return summarize(providers.Result{Incidents: []providers.Incident{}})
	}
	return summarize(providers.ParseRSS(body, p.now()))
}

func summarize(res providers.Result) Summary {
	s := Summary{
		Status:    Indicator{Indicator: "none", Description: "All Systems Operational"},
		Incidents: res.Incidents,
	}
	if len(res.Incidents) > 0 {
		s.Status = Indicator{Indicator: "minor", Description: "Service Issues"}
	}
	return s
}
