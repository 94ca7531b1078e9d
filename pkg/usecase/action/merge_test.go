package action_test

import (
	"context"
	"testing"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
	"github.com/cogni-dao/cogni-git-admin/pkg/usecase/action"
	"github.com/m-mizutani/gt"
)

func TestMergeChange_ParseParams(t *testing.T) {
	h := &action.MergeChange{}

	tests := []struct {
		name    string
		raw     string
		want    model.MergeParams
		wantErr bool
	}{
		{name: "empty", raw: "", want: model.MergeParams{}},
		{name: "blank", raw: "   ", want: model.MergeParams{}},
		{name: "empty object", raw: "{}", want: model.MergeParams{}},
		{
			name: "all fields",
			raw:  `{"merge_method":"rebase","commit_title":"t","commit_message":"m"}`,
			want: model.MergeParams{MergeMethod: types.MergeMethodRebase, CommitTitle: "t", CommitMessage: "m"},
		},
		{name: "unknown field", raw: `{"merge_method":"merge","force":true}`, wantErr: true},
		{name: "invalid method", raw: `{"merge_method":"octopus"}`, wantErr: true},
		{name: "wrong type", raw: `{"commit_title":1}`, wantErr: true},
		{name: "not json", raw: `merge`, wantErr: true},
		{name: "trailing data", raw: `{} {}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.ParseParams(tt.raw)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, got.(model.MergeParams), tt.want)
		})
	}
}

func TestMergeChange_Run(t *testing.T) {
	ctx := context.Background()
	h := &action.MergeChange{}

	t.Run("merged with defaults", func(t *testing.T) {
		p := &mockProvider{}
		res := h.Run(ctx, newSignal(types.ActionMerge, types.TargetChange, "42"), &action.ExecContext{
			Repo: testRepo, Provider: p, Params: model.MergeParams{},
		})

		gt.True(t, res.Success)
		gt.Equal(t, res.Action, types.ResultMergeCompleted)
		gt.Equal(t, res.ChangeNumber, 42)
		gt.Equal(t, res.SHA, "sha")
		gt.Equal(t, res.RepoURL, testRepo.URL)
		gt.Equal(t, res.Executor, "0xexecutor")

		gt.Equal(t, len(p.mergeCalls), 1)
		gt.Equal(t, p.mergeCalls[0].MergeMethod, types.MergeMethodMerge)
		gt.Equal(t, p.mergeCalls[0].CommitTitle, "Merge change #42 via DAO vote")
		gt.Equal(t, p.mergeCalls[0].CommitMessage, "Executed by: 0xexecutor")
	})

	t.Run("explicit params are kept", func(t *testing.T) {
		p := &mockProvider{}
		params := model.MergeParams{MergeMethod: types.MergeMethodSquash, CommitTitle: "title", CommitMessage: "body"}
		res := h.Run(ctx, newSignal(types.ActionMerge, types.TargetChange, "7"), &action.ExecContext{
			Repo: testRepo, Provider: p, Params: params,
		})
		gt.True(t, res.Success)
		gt.Equal(t, p.mergeCalls[0], params)
	})

	t.Run("provider failure", func(t *testing.T) {
		p := &mockProvider{mergeFn: func(context.Context, model.RepoRef, int, model.MergeParams) *model.MergeResult {
			return &model.MergeResult{Success: false, Error: "Pull Request is not mergeable", Status: 405}
		}}
		res := h.Run(ctx, newSignal(types.ActionMerge, types.TargetChange, "42"), &action.ExecContext{Repo: testRepo, Provider: p})
		gt.False(t, res.Success)
		gt.Equal(t, res.Action, types.ResultMergeFailed)
		gt.Equal(t, res.Error, "Pull Request is not mergeable")
		gt.Equal(t, res.ChangeNumber, 42)
	})

	for _, resource := range []string{"0", "-1", "abc", "", "4.2"} {
		t.Run("invalid resource "+resource, func(t *testing.T) {
			p := &mockProvider{}
			res := h.Run(ctx, newSignal(types.ActionMerge, types.TargetChange, resource), &action.ExecContext{Repo: testRepo, Provider: p})
			gt.False(t, res.Success)
			gt.Equal(t, res.Action, types.ResultValidationFailed)
			gt.Equal(t, res.Error, "resource must be a valid change number greater than 0")
			gt.Equal(t, len(p.mergeCalls), 0)
		})
	}
}
