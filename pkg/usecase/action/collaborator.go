package action

import (
	"context"
	"regexp"
	"strings"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

const maxUsernameLength = 39

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9]+(?:-[A-Za-z0-9]+)*$`)

// ValidUsername reports whether name is a well-formed GitHub login
func ValidUsername(name string) bool {
	return len(name) >= 1 && len(name) <= maxUsernameLength && usernamePattern.MatchString(name)
}

func invalidUsername(signal model.Signal, username string) *model.ActionResult {
	res := model.FailedResult(types.ResultValidationFailed, "invalid GitHub username format: "+username)
	res.RepoURL = signal.RepoURL
	res.Executor = signal.Executor
	res.Username = username
	return res
}

// GrantCollaborator adds the user named by the signal's resource as a collaborator
type GrantCollaborator struct{}

// ParseParams accepts an optional permission level
func (h *GrantCollaborator) ParseParams(raw string) (any, error) {
	params, err := decodeParams[model.GrantParams](raw)
	if err != nil {
		return nil, err
	}
	if params.Permission != "" && !params.Permission.Valid() {
		return nil, goerr.New("permission must be one of pull, triage, push, maintain, admin",
			goerr.V("permission", params.Permission))
	}
	return params, nil
}

// Run grants the permission, admin unless the params say otherwise
func (h *GrantCollaborator) Run(ctx context.Context, signal model.Signal, ec *ExecContext) *model.ActionResult {
	username := strings.TrimSpace(signal.Resource)
	if !ValidUsername(username) {
		return invalidUsername(signal, username)
	}

	params, _ := ec.Params.(model.GrantParams)
	if params.Permission == "" {
		params.Permission = types.PermissionAdmin
	}

	ctxlog.From(ctx).Info("granting collaborator",
		"repo", ec.Repo.FullName(), "username", username, "permission", params.Permission)

	res := ec.Provider.GrantCollaborator(ctx, ec.Repo, username, params)
	result := &model.ActionResult{
		Success:    res.Success,
		Action:     types.ResultAdminAdded,
		RepoURL:    signal.RepoURL,
		Executor:   signal.Executor,
		Username:   username,
		Permission: string(params.Permission),
	}
	if !res.Success {
		result.Action = types.ResultAdminAddFailed
		result.Error = res.Error
		if result.Error == "" {
			result.Error = "failed to add collaborator"
		}
	}
	return result
}

// RevokeCollaborator removes the user named by the signal's resource and
// cancels any pending invitation for it
type RevokeCollaborator struct{}

// ParseParams accepts no fields
func (h *RevokeCollaborator) ParseParams(raw string) (any, error) {
	return decodeParams[model.RevokeParams](raw)
}

// Run revokes access
func (h *RevokeCollaborator) Run(ctx context.Context, signal model.Signal, ec *ExecContext) *model.ActionResult {
	username := strings.TrimSpace(signal.Resource)
	if !ValidUsername(username) {
		return invalidUsername(signal, username)
	}

	ctxlog.From(ctx).Info("revoking collaborator",
		"repo", ec.Repo.FullName(), "username", username)

	res := ec.Provider.RevokeCollaborator(ctx, ec.Repo, username, model.RevokeParams{})
	result := &model.ActionResult{
		Success:             res.Success,
		Action:              types.ResultAdminRemoved,
		RepoURL:             signal.RepoURL,
		Executor:            signal.Executor,
		Username:            username,
		CollaboratorRemoved: res.CollaboratorRemoved,
		InvitationCancelled: res.InvitationCancelled,
		InvitationID:        res.InvitationID,
	}
	if !res.Success {
		result.Action = types.ResultAdminRemoveFailed
		result.Error = res.Error
		if result.Error == "" {
			result.Error = "failed to revoke collaborator"
		}
	}
	return result
}
