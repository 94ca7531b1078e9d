package usecase_test

import (
	"context"
	"math/big"
	"sync"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/interfaces"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
)

type mockProvider struct {
	mergeCalls  int
	grantCalls  int
	revokeCalls int
}

func (m *mockProvider) MergeChange(ctx context.Context, repo model.RepoRef, number int, params model.MergeParams) *model.MergeResult {
	m.mergeCalls++
	return &model.MergeResult{Success: true, Merged: true, SHA: "merged-sha"}
}

func (m *mockProvider) GrantCollaborator(ctx context.Context, repo model.RepoRef, username string, params model.GrantParams) *model.GrantResult {
	m.grantCalls++
	return &model.GrantResult{Success: true, Username: username, Permission: params.Permission}
}

func (m *mockProvider) RevokeCollaborator(ctx context.Context, repo model.RepoRef, username string, params model.RevokeParams) *model.RevokeResult {
	m.revokeCalls++
	return &model.RevokeResult{Success: true, Username: username, CollaboratorRemoved: true}
}

type mockGitHubApp struct {
	lookupFn   func(ctx context.Context, dao string, repo model.RepoRef) (int64, error)
	providerFn func(ctx context.Context, installationID int64) (interfaces.VCSProvider, error)

	lookupCalls   []model.RepoRef
	providerCalls []int64
}

func (m *mockGitHubApp) LookupInstallation(ctx context.Context, dao string, repo model.RepoRef) (int64, error) {
	m.lookupCalls = append(m.lookupCalls, repo)
	if m.lookupFn != nil {
		return m.lookupFn(ctx, dao, repo)
	}
	return 1, nil
}

func (m *mockGitHubApp) NewProvider(ctx context.Context, installationID int64) (interfaces.VCSProvider, error) {
	m.providerCalls = append(m.providerCalls, installationID)
	if m.providerFn != nil {
		return m.providerFn(ctx, installationID)
	}
	return &mockProvider{}, nil
}

type mockPolicy struct {
	err   error
	calls int
}

func (m *mockPolicy) Authorize(ctx context.Context, dao string, chainID *big.Int, vcs types.VCS, repo model.RepoRef) error {
	m.calls++
	return m.err
}

type mockFactory struct {
	provider interfaces.VCSProvider
	err      error
	calls    int
}

func (m *mockFactory) CreateProvider(ctx context.Context, vcs types.VCS, repo model.RepoRef, dao string, chainID *big.Int) (interfaces.VCSProvider, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.provider, nil
}

type mockFetcher struct {
	signals map[string]*model.DecodedSignal
	errs    map[string]error
	calls   []string
}

func (m *mockFetcher) FetchAndDecode(ctx context.Context, txHash, contract string) (*model.DecodedSignal, error) {
	m.calls = append(m.calls, txHash)
	if err, ok := m.errs[txHash]; ok {
		return nil, err
	}
	return m.signals[txHash], nil
}

type mockExecutor struct {
	results map[string]*model.ActionResult
	calls   []model.Signal
}

func (m *mockExecutor) Execute(ctx context.Context, signal model.Signal) *model.ActionResult {
	m.calls = append(m.calls, signal)
	if r, ok := m.results[signal.Resource]; ok {
		return r
	}
	return &model.ActionResult{Success: true, Action: types.ResultMergeCompleted}
}

type mockNotifier struct {
	mu    sync.Mutex
	calls []model.DecodedSignal
}

func (m *mockNotifier) Notify(ctx context.Context, signal model.DecodedSignal, result *model.ActionResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, signal)
	return nil
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
