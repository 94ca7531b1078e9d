package action

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/interfaces"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Key identifies a handler by its action:target pair
type Key struct {
	Action types.Action
	Target types.Target
}

func (k Key) String() string {
	return string(k.Action) + ":" + string(k.Target)
}

// ExecContext carries what a handler needs to act on the repository
type ExecContext struct {
	Repo     model.RepoRef
	Provider interfaces.VCSProvider

	// Params is the value returned by the handler's ParseParams
	Params any
}

// Handler executes one action:target pair
type Handler interface {
	// ParseParams validates the signal's paramsJson against the pair's schema
	ParseParams(raw string) (any, error)

	Run(ctx context.Context, signal model.Signal, ec *ExecContext) *model.ActionResult
}

// Registry maps action:target pairs to handlers
type Registry struct {
	handlers map[Key]Handler
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Key]Handler)}
}

// NewDefaultRegistry creates a registry with the merge, grant and revoke handlers
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(types.ActionMerge, types.TargetChange, &MergeChange{})
	r.Register(types.ActionGrant, types.TargetCollaborator, &GrantCollaborator{})
	r.Register(types.ActionRevoke, types.TargetCollaborator, &RevokeCollaborator{})
	return r
}

// Register binds a handler to a pair, replacing any previous one
func (r *Registry) Register(action types.Action, target types.Target, h Handler) {
	r.handlers[Key{Action: action, Target: target}] = h
}

// Get returns the handler for a pair. The error lists the registered pairs.
func (r *Registry) Get(action types.Action, target types.Target) (Handler, error) {
	key := Key{Action: action, Target: target}
	h, ok := r.handlers[key]
	if !ok {
		available := r.Available()
		return nil, goerr.Wrap(types.ErrUnknownAction,
			fmt.Sprintf("no handler for %s (available: %s)", key, strings.Join(available, ", ")),
			goerr.V("key", key.String()), goerr.V("available", available))
	}
	return h, nil
}

// Available returns the registered pairs, sorted
func (r *Registry) Available() []string {
	keys := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}
