package types

// Version is the application version, overwritten at build time via -ldflags
var Version = "dev"

// ServiceName is reported by the health endpoint and used as the CLI name
const ServiceName = "cogni-git-admin"

// VCS identifies a version-control host family
type VCS string

const (
	VCSGitHub  VCS = "github"
	VCSGitLab  VCS = "gitlab"
	VCSRadicle VCS = "radicle"
)

// Action is the verb of a governance signal
type Action string

const (
	ActionMerge  Action = "merge"
	ActionGrant  Action = "grant"
	ActionRevoke Action = "revoke"
)

// Valid reports whether the action is one of the known verbs
func (a Action) Valid() bool {
	switch a {
	case ActionMerge, ActionGrant, ActionRevoke:
		return true
	}
	return false
}

// Target is the object kind a governance signal acts on
type Target string

const (
	TargetChange       Target = "change"
	TargetCollaborator Target = "collaborator"
)

// Valid reports whether the target is one of the known kinds
func (t Target) Valid() bool {
	switch t {
	case TargetChange, TargetCollaborator:
		return true
	}
	return false
}

// ProviderID identifies a chain-data webhook provider
type ProviderID string

const (
	ProviderAlchemy ProviderID = "alchemy"
)

// MergeMethod is the strategy used to merge a change
type MergeMethod string

const (
	MergeMethodMerge  MergeMethod = "merge"
	MergeMethodSquash MergeMethod = "squash"
	MergeMethodRebase MergeMethod = "rebase"
)

// Valid reports whether the merge method is supported by the host
func (m MergeMethod) Valid() bool {
	switch m {
	case MergeMethodMerge, MergeMethodSquash, MergeMethodRebase:
		return true
	}
	return false
}

// Permission is a repository permission level granted to a collaborator
type Permission string

const (
	PermissionPull     Permission = "pull"
	PermissionTriage   Permission = "triage"
	PermissionPush     Permission = "push"
	PermissionMaintain Permission = "maintain"
	PermissionAdmin    Permission = "admin"
)

// Valid reports whether the permission level is known
func (p Permission) Valid() bool {
	switch p {
	case PermissionPull, PermissionTriage, PermissionPush, PermissionMaintain, PermissionAdmin:
		return true
	}
	return false
}

// ResultTag labels the outcome of an executed action
type ResultTag string

const (
	ResultMergeCompleted    ResultTag = "merge_completed"
	ResultMergeFailed       ResultTag = "merge_failed"
	ResultAdminAdded        ResultTag = "admin_added"
	ResultAdminAddFailed    ResultTag = "admin_add_failed"
	ResultAdminRemoved      ResultTag = "admin_removed"
	ResultAdminRemoveFailed ResultTag = "admin_remove_failed"
	ResultValidationFailed  ResultTag = "validation_failed"
	ResultExecutionFailed   ResultTag = "execution_failed"
	ResultUnsupported       ResultTag = "unsupported"
)

// Revoke operations recorded on a revoke result
const (
	RevokeOpCollaboratorRemoved = "collaborator_removed"
	RevokeOpInvitationCancelled = "invitation_cancelled"
	RevokeOpBoth                = "collaborator_removed_and_invitation_cancelled"
)
