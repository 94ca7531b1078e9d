package onchain

import (
	"net/http"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/interfaces"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Registry maps provider identifiers to their adapters
type Registry struct {
	order    []types.ProviderID
	adapters map[types.ProviderID]interfaces.ChainProvider
}

// NewRegistry builds a registry. Detection tries adapters in the given order.
func NewRegistry(adapters ...interfaces.ChainProvider) *Registry {
	r := &Registry{
		adapters: make(map[types.ProviderID]interfaces.ChainProvider, len(adapters)),
	}
	for _, a := range adapters {
		if _, ok := r.adapters[a.ID()]; !ok {
			r.order = append(r.order, a.ID())
		}
		r.adapters[a.ID()] = a
	}
	return r
}

// Detect returns the provider a delivery came from, if any adapter recognises it
func (r *Registry) Detect(header http.Header, body []byte) (types.ProviderID, bool) {
	for _, id := range r.order {
		if r.adapters[id].Detect(header, body) {
			return id, true
		}
	}
	return "", false
}

// Get returns the adapter for a provider
func (r *Registry) Get(id types.ProviderID) (interfaces.ChainProvider, error) {
	a, ok := r.adapters[id]
	if !ok {
		return nil, goerr.Wrap(types.ErrUnknownProvider, "no adapter registered", goerr.V("provider", id))
	}
	return a, nil
}
