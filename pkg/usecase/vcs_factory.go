package usecase

import (
	"context"
	"math/big"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/interfaces"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// VCSFactory builds authenticated providers after consulting the
// authorization policy
type VCSFactory struct {
	policy interfaces.AuthorizationPolicy
	github interfaces.GitHubApp
}

var _ interfaces.VCSFactory = (*VCSFactory)(nil)

// NewVCSFactory creates a factory. A nil policy allows everything.
func NewVCSFactory(policy interfaces.AuthorizationPolicy, github interfaces.GitHubApp) *VCSFactory {
	if policy == nil {
		policy = AllowAllPolicy{}
	}
	return &VCSFactory{policy: policy, github: github}
}

// CreateProvider authorizes the DAO, resolves credentials for the repository
// and returns a provider for it
func (f *VCSFactory) CreateProvider(ctx context.Context, vcs types.VCS, repo model.RepoRef, dao string, chainID *big.Int) (interfaces.VCSProvider, error) {
	if err := f.policy.Authorize(ctx, dao, chainID, vcs, repo); err != nil {
		return nil, goerr.Wrap(err, "authorization denied",
			goerr.V("dao", dao), goerr.V("repo", repo.FullName()))
	}

	switch vcs {
	case types.VCSGitHub:
		return f.createGitHub(ctx, repo, dao)
	case types.VCSGitLab, types.VCSRadicle:
		return nil, goerr.Wrap(types.ErrUnimplemented, "VCS provider not implemented", goerr.V("vcs", vcs))
	default:
		return nil, goerr.Wrap(types.ErrUnsupportedVCS, "unsupported VCS", goerr.V("vcs", vcs))
	}
}

func (f *VCSFactory) createGitHub(ctx context.Context, repo model.RepoRef, dao string) (interfaces.VCSProvider, error) {
	if f.github == nil {
		return nil, goerr.New("GitHub is not configured")
	}

	installationID, err := f.github.LookupInstallation(ctx, dao, repo)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve GitHub installation", goerr.V("repo", repo.FullName()))
	}

	provider, err := f.github.NewProvider(ctx, installationID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub provider",
			goerr.V("repo", repo.FullName()), goerr.V("installation_id", installationID))
	}
	return provider, nil
}
