package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/interfaces"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
	"github.com/cogni-dao/cogni-git-admin/pkg/usecase/action"
	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
)

// Executor resolves the repository, provider and handler of a signal and runs it
type Executor struct {
	factory interfaces.VCSFactory
	actions *action.Registry
}

var _ interfaces.Executor = (*Executor)(nil)

// NewExecutor creates an executor
func NewExecutor(factory interfaces.VCSFactory, actions *action.Registry) *Executor {
	return &Executor{factory: factory, actions: actions}
}

// Execute never returns nil and never panics; every failure becomes an
// unsuccessful result
func (e *Executor) Execute(ctx context.Context, signal model.Signal) (result *model.ActionResult) {
	logger := ctxlog.From(ctx).With("signal", signal)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while executing signal", "recover", r)
			if hub := sentry.GetHubFromContext(ctx); hub != nil {
				hub.Recover(r)
			}
			result = withSignal(model.FailedResult(types.ResultExecutionFailed, fmt.Sprintf("panic: %v", r)), signal)
		}
	}()

	repo, err := model.ParseRepoRef(signal.RepoURL)
	if err != nil {
		logger.Warn("invalid repository URL", "error", err)
		return withSignal(model.FailedResult(types.ResultValidationFailed, err.Error()), signal)
	}

	handler, err := e.actions.Get(signal.Action, signal.Target)
	if err != nil {
		logger.Warn("unsupported action", "error", err)
		res := withSignal(model.FailedResult(types.ResultUnsupported,
			fmt.Sprintf("unsupported action: %s", signal.Key())), signal)
		res.AvailableActions = e.actions.Available()
		return res
	}

	params, err := handler.ParseParams(signal.ParamsJSON)
	if err != nil {
		logger.Warn("invalid params", "error", err)
		return withSignal(model.FailedResult(types.ResultValidationFailed,
			fmt.Sprintf("invalid params for %s: %s", signal.Key(), err.Error())), signal)
	}

	provider, err := e.factory.CreateProvider(ctx, signal.VCS, *repo, signal.DAO, signal.ChainID)
	if err != nil {
		logger.Error("failed to create VCS provider", "error", err)
		msg := err.Error()
		if errors.Is(err, types.ErrUnauthorized) {
			msg = "DAO is not authorized for " + repo.FullName()
		}
		return withSignal(model.FailedResult(types.ResultExecutionFailed, msg), signal)
	}

	result = handler.Run(ctx, signal, &action.ExecContext{
		Repo:     *repo,
		Provider: provider,
		Params:   params,
	})
	if result == nil {
		return withSignal(model.FailedResult(types.ResultExecutionFailed, "handler returned no result"), signal)
	}

	logger.Info("signal executed",
		"success", result.Success, "result", result.Action, "error", result.Error)
	return result
}

func withSignal(res *model.ActionResult, signal model.Signal) *model.ActionResult {
	res.RepoURL = signal.RepoURL
	res.Executor = signal.Executor
	return res
}
