package interfaces

import (
	"context"
	"math/big"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
)

// VCSProvider is an authenticated, repository-scoped client of a VCS host.
// Operations report failures in their result instead of returning errors.
type VCSProvider interface {
	MergeChange(ctx context.Context, repo model.RepoRef, number int, params model.MergeParams) *model.MergeResult
	GrantCollaborator(ctx context.Context, repo model.RepoRef, username string, params model.GrantParams) *model.GrantResult
	RevokeCollaborator(ctx context.Context, repo model.RepoRef, username string, params model.RevokeParams) *model.RevokeResult
}

// VCSFactory resolves an authenticated VCSProvider for a repository
type VCSFactory interface {
	CreateProvider(ctx context.Context, vcs types.VCS, repo model.RepoRef, dao string, chainID *big.Int) (VCSProvider, error)
}

// AuthorizationPolicy decides whether a DAO may act on a repository
type AuthorizationPolicy interface {
	Authorize(ctx context.Context, dao string, chainID *big.Int, vcs types.VCS, repo model.RepoRef) error
}

// GitHubApp resolves GitHub credentials and builds providers
type GitHubApp interface {
	// LookupInstallation returns the App installation id covering the repository
	LookupInstallation(ctx context.Context, dao string, repo model.RepoRef) (int64, error)

	// NewProvider builds a provider authenticated for the installation
	NewProvider(ctx context.Context, installationID int64) (VCSProvider, error)
}
