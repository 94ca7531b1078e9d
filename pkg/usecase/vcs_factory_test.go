package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
	"github.com/cogni-dao/cogni-git-admin/pkg/usecase"
	"github.com/m-mizutani/gt"
)

var testRepo = model.RepoRef{Host: "github.com", Owner: "cogni-dao", Repo: "test-repo", URL: "https://github.com/cogni-dao/test-repo"}

func TestAllowAllPolicy(t *testing.T) {
	err := usecase.AllowAllPolicy{}.Authorize(context.Background(), "0xdao", big.NewInt(1), types.VCSGitHub, testRepo)
	gt.NoError(t, err)
}

func TestVCSFactory_CreateProvider(t *testing.T) {
	ctx := context.Background()
	chainID := big.NewInt(11155111)

	t.Run("github provider via installation lookup", func(t *testing.T) {
		app := &mockGitHubApp{lookupFn: func(context.Context, string, model.RepoRef) (int64, error) { return 42, nil }}
		policy := &mockPolicy{}
		f := usecase.NewVCSFactory(policy, app)

		p, err := f.CreateProvider(ctx, types.VCSGitHub, testRepo, "0xdao", chainID)
		gt.NoError(t, err)
		gt.V(t, p).NotNil()
		gt.Equal(t, policy.calls, 1)
		gt.Equal(t, app.providerCalls, []int64{42})
	})

	t.Run("authorization runs first", func(t *testing.T) {
		app := &mockGitHubApp{}
		policy := &mockPolicy{err: types.ErrUnauthorized}
		f := usecase.NewVCSFactory(policy, app)

		_, err := f.CreateProvider(ctx, types.VCSGitHub, testRepo, "0xdao", chainID)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrUnauthorized))
		gt.Equal(t, len(app.lookupCalls), 0)
	})

	t.Run("installation lookup failure", func(t *testing.T) {
		app := &mockGitHubApp{lookupFn: func(context.Context, string, model.RepoRef) (int64, error) {
			return 0, errors.New("not installed")
		}}
		f := usecase.NewVCSFactory(nil, app)

		_, err := f.CreateProvider(ctx, types.VCSGitHub, testRepo, "0xdao", chainID)
		gt.Error(t, err)
		gt.String(t, err.Error()).Contains("failed to resolve GitHub installation")
		gt.Equal(t, len(app.providerCalls), 0)
	})

	t.Run("gitlab and radicle are not implemented", func(t *testing.T) {
		f := usecase.NewVCSFactory(nil, &mockGitHubApp{})
		for _, vcs := range []types.VCS{types.VCSGitLab, types.VCSRadicle} {
			_, err := f.CreateProvider(ctx, vcs, testRepo, "0xdao", chainID)
			gt.True(t, errors.Is(err, types.ErrUnimplemented))
		}
	})

	t.Run("unknown vcs", func(t *testing.T) {
		f := usecase.NewVCSFactory(nil, &mockGitHubApp{})
		_, err := f.CreateProvider(ctx, types.VCS("svn"), testRepo, "0xdao", chainID)
		gt.True(t, errors.Is(err, types.ErrUnsupportedVCS))
	})

	t.Run("github not configured", func(t *testing.T) {
		f := usecase.NewVCSFactory(nil, nil)
		_, err := f.CreateProvider(ctx, types.VCSGitHub, testRepo, "0xdao", chainID)
		gt.Error(t, err)
	})
}
