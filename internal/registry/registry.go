// Package registry holds the immutable set of monitored providers.
package registry

import (
	"errors"
	"fmt"

	"github.com/conradoqg/cloudstatus/internal/config"
	"github.com/conradoqg/cloudstatus/internal/providers"
)

// ErrProviderNotFound is returned when an identifier is not registered.
var ErrProviderNotFound = errors.New("provider not found")

// Registry is built once at startup and only read afterwards.
type Registry struct {
	list []providers.ProviderConfig
	byID map[string]int
}

// New validates configs and preserves their order.
func New(configs []providers.ProviderConfig) (*Registry, error) {
	r := &Registry{
		list: make([]providers.ProviderConfig, len(configs)),
		byID: make(map[string]int, len(configs)),
	}
	for i, pc := range configs {
		if pc.ID == "" {
			return nil, fmt.Errorf("provider #%d: empty id", i)
		}
		if _, dup := r.byID[pc.ID]; dup {
			return nil, fmt.Errorf("duplicate provider id: %s", pc.ID)
		}
		if _, err := providers.ParseFormat(string(pc.Format)); err != nil {
			return nil, fmt.Errorf("provider %s: %w", pc.ID, err)
		}
		if pc.Name == "" {
			pc.Name = pc.ID
		}
		r.list[i] = pc
		r.byID[pc.ID] = i
	}
	return r, nil
}

// FromConfig builds the registry from YAML providers, falling back to the
// built-in table when none are configured.
func FromConfig(cfg *config.Config) (*Registry, error) {
	if len(cfg.Providers) == 0 {
		return New(Defaults())
	}
	configs := make([]providers.ProviderConfig, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		f, err := providers.ParseFormat(p.Format)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", p.ID, err)
		}
		configs = append(configs, providers.ProviderConfig{
			ID:                 p.ID,
			Name:               p.Name,
			Description:        p.Description,
			URL:                p.URL,
			APIURL:             p.APIURL,
			Format:             f,
			InsecureSkipVerify: p.InsecureSkipVerify,
		})
	}
	return New(configs)
}

// All returns a copy of the configured providers in configuration order.
func (r *Registry) All() []providers.ProviderConfig {
	out := make([]providers.ProviderConfig, len(r.list))
	copy(out, r.list)
	return out
}

// Len reports the number of registered providers.
func (r *Registry) Len() int { return len(r.list) }

// Lookup returns ErrProviderNotFound for unknown ids.
func (r *Registry) Lookup(id string) (providers.ProviderConfig, error) {
	i, ok := r.byID[id]
	if !ok {
		return providers.ProviderConfig{}, fmt.Errorf("%w: %s", ErrProviderNotFound, id)
	}
	return r.list[i], nil
}
