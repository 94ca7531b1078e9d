package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/interfaces"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
)

// Provider performs repository administration through the GitHub REST API
type Provider struct {
	client *github.Client
}

var _ interfaces.VCSProvider = (*Provider)(nil)

// NewProvider wraps an authenticated go-github client
func NewProvider(client *github.Client) *Provider {
	return &Provider{client: client}
}

// MergeChange merges pull request number
func (p *Provider) MergeChange(ctx context.Context, repo model.RepoRef, number int, params model.MergeParams) *model.MergeResult {
	method := params.MergeMethod
	if method == "" {
		method = types.MergeMethodMerge
	}

	res, resp, err := p.client.PullRequests.Merge(ctx, repo.Owner, repo.Repo, number, params.CommitMessage,
		&github.PullRequestOptions{
			CommitTitle: params.CommitTitle,
			MergeMethod: string(method),
		})
	if err != nil {
		ctxlog.From(ctx).Warn("failed to merge pull request",
			"repo", repo.FullName(), "number", number, "error", err)
		return &model.MergeResult{
			Success: false,
			Error:   errorMessage(err),
			Status:  statusOf(resp, err),
		}
	}

	return &model.MergeResult{
		Success: res.GetMerged(),
		SHA:     res.GetSHA(),
		Merged:  res.GetMerged(),
		Message: res.GetMessage(),
		Status:  statusOf(resp, nil),
		Error:   mergeError(res),
	}
}

func mergeError(res *github.PullRequestMergeResult) string {
	if res.GetMerged() {
		return ""
	}
	if msg := res.GetMessage(); msg != "" {
		return msg
	}
	return "pull request was not merged"
}

// GrantCollaborator invites username or updates its permission. An existing
// collaborator is reported as success.
func (p *Provider) GrantCollaborator(ctx context.Context, repo model.RepoRef, username string, params model.GrantParams) *model.GrantResult {
	permission := params.Permission
	if permission == "" {
		permission = types.PermissionAdmin
	}

	_, resp, err := p.client.Repositories.AddCollaborator(ctx, repo.Owner, repo.Repo, username,
		&github.RepositoryAddCollaboratorOptions{Permission: string(permission)})
	if err != nil {
		ctxlog.From(ctx).Warn("failed to add collaborator",
			"repo", repo.FullName(), "username", username, "error", err)
		return &model.GrantResult{
			Success:    false,
			Username:   username,
			Permission: permission,
			Error:      errorMessage(err),
			Status:     statusOf(resp, err),
		}
	}

	return &model.GrantResult{
		Success:    true,
		Username:   username,
		Permission: permission,
		Status:     statusOf(resp, nil),
	}
}

// RevokeCollaborator removes username as a collaborator and cancels any
// pending invitation for it. Both paths always run.
func (p *Provider) RevokeCollaborator(ctx context.Context, repo model.RepoRef, username string, _ model.RevokeParams) *model.RevokeResult {
	logger := ctxlog.From(ctx).With("repo", repo.FullName(), "username", username)

	removed := p.removeCollaborator(ctx, repo, username)
	invitationID, cancelled := p.cancelInvitation(ctx, repo, username)

	result := &model.RevokeResult{
		Success:             removed || cancelled,
		Username:            username,
		InvitationID:        invitationID,
		CollaboratorRemoved: removed,
		InvitationCancelled: cancelled,
	}

	switch {
	case removed && cancelled:
		result.Operation = types.RevokeOpBoth
	case removed:
		result.Operation = types.RevokeOpCollaboratorRemoved
	case cancelled:
		result.Operation = types.RevokeOpInvitationCancelled
	default:
		result.Error = fmt.Sprintf("user %s not found as collaborator or pending invitation", username)
		result.Status = http.StatusNotFound
	}

	logger.Info("revoke reconciled",
		"collaborator_removed", removed,
		"invitation_cancelled", cancelled,
		"invitation_id", invitationID)
	return result
}

func (p *Provider) removeCollaborator(ctx context.Context, repo model.RepoRef, username string) bool {
	logger := ctxlog.From(ctx)

	// A failed check is not conclusive; only a definite "not a collaborator"
	// skips the removal.
	isCollaborator, _, err := p.client.Repositories.IsCollaborator(ctx, repo.Owner, repo.Repo, username)
	if err != nil {
		logger.Warn("failed to check collaborator, attempting removal", "username", username, "error", err)
	} else if !isCollaborator {
		logger.Debug("user is not a collaborator", "username", username)
		return false
	}

	resp, err := p.client.Repositories.RemoveCollaborator(ctx, repo.Owner, repo.Repo, username)
	if err != nil {
		if statusOf(resp, err) != http.StatusNotFound {
			logger.Warn("failed to remove collaborator", "username", username, "error", err)
		}
		return false
	}
	return true
}

func (p *Provider) cancelInvitation(ctx context.Context, repo model.RepoRef, username string) (int64, bool) {
	logger := ctxlog.From(ctx)

	opts := &github.ListOptions{PerPage: 100}
	for {
		invitations, resp, err := p.client.Repositories.ListInvitations(ctx, repo.Owner, repo.Repo, opts)
		if err != nil {
			logger.Warn("failed to list invitations", "error", err)
			return 0, false
		}

		for _, inv := range invitations {
			if !strings.EqualFold(inv.GetInvitee().GetLogin(), username) {
				continue
			}

			if _, err := p.client.Repositories.DeleteInvitation(ctx, repo.Owner, repo.Repo, inv.GetID()); err != nil {
				logger.Warn("failed to cancel invitation",
					"invitation_id", inv.GetID(), "error", err)
				return inv.GetID(), false
			}
			return inv.GetID(), true
		}

		if resp == nil || resp.NextPage == 0 {
			return 0, false
		}
		opts.Page = resp.NextPage
	}
}

func statusOf(resp *github.Response, err error) int {
	if resp != nil && resp.Response != nil {
		return resp.StatusCode
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	return 0
}

func errorMessage(err error) string {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Message != "" {
		return ghErr.Message
	}
	return err.Error()
}
