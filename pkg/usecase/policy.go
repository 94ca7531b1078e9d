package usecase

import (
	"context"
	"math/big"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/interfaces"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
)

// AllowAllPolicy authorizes every DAO on every repository. It stands in for a
// store-backed DAO to repository allowlist.
type AllowAllPolicy struct{}

var _ interfaces.AuthorizationPolicy = AllowAllPolicy{}

// Authorize always succeeds
func (AllowAllPolicy) Authorize(ctx context.Context, dao string, chainID *big.Int, vcs types.VCS, repo model.RepoRef) error {
	ctxlog.From(ctx).Debug("authorization allowed",
		"dao", dao, "chain_id", chainID.String(), "vcs", vcs, "repo", repo.FullName())
	return nil
}
