package action

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// MergeChange merges the change (pull request) named by the signal's resource
type MergeChange struct{}

// ParseParams accepts merge_method, commit_title and commit_message
func (h *MergeChange) ParseParams(raw string) (any, error) {
	params, err := decodeParams[model.MergeParams](raw)
	if err != nil {
		return nil, err
	}
	if params.MergeMethod != "" && !params.MergeMethod.Valid() {
		return nil, goerr.New("merge_method must be one of merge, squash, rebase",
			goerr.V("merge_method", params.MergeMethod))
	}
	return params, nil
}

// Run merges the change
func (h *MergeChange) Run(ctx context.Context, signal model.Signal, ec *ExecContext) *model.ActionResult {
	number, err := strconv.Atoi(strings.TrimSpace(signal.Resource))
	if err != nil || number <= 0 {
		res := model.FailedResult(types.ResultValidationFailed, "resource must be a valid change number greater than 0")
		res.RepoURL = signal.RepoURL
		res.Executor = signal.Executor
		return res
	}

	params, _ := ec.Params.(model.MergeParams)
	if params.MergeMethod == "" {
		params.MergeMethod = types.MergeMethodMerge
	}
	if params.CommitTitle == "" {
		params.CommitTitle = fmt.Sprintf("Merge change #%d via DAO vote", number)
	}
	if params.CommitMessage == "" {
		params.CommitMessage = "Executed by: " + signal.Executor
	}

	logger := ctxlog.From(ctx)
	logger.Info("merging change",
		"repo", ec.Repo.FullName(), "number", number, "merge_method", params.MergeMethod)

	res := ec.Provider.MergeChange(ctx, ec.Repo, number, params)
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = "merge failed"
		}
		return &model.ActionResult{
			Success:      false,
			Action:       types.ResultMergeFailed,
			Error:        msg,
			RepoURL:      signal.RepoURL,
			Executor:     signal.Executor,
			ChangeNumber: number,
		}
	}

	return &model.ActionResult{
		Success:      true,
		Action:       types.ResultMergeCompleted,
		RepoURL:      signal.RepoURL,
		Executor:     signal.Executor,
		ChangeNumber: number,
		SHA:          res.SHA,
	}
}
