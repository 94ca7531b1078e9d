package model

import "github.com/cogni-dao/cogni-git-admin/pkg/domain/types"

// ActionResult is the outcome of executing one signal
type ActionResult struct {
	Success bool            `json:"success"`
	Action  types.ResultTag `json:"action"`
	Error   string          `json:"error,omitempty"`

	RepoURL             string   `json:"repoUrl,omitempty"`
	Executor            string   `json:"executor,omitempty"`
	ChangeNumber        int      `json:"changeNumber,omitempty"`
	SHA                 string   `json:"sha,omitempty"`
	Username            string   `json:"username,omitempty"`
	Permission          string   `json:"permission,omitempty"`
	CollaboratorRemoved bool     `json:"collaboratorRemoved,omitempty"`
	InvitationCancelled bool     `json:"invitationCancelled,omitempty"`
	InvitationID        int64    `json:"invitationId,omitempty"`
	AvailableActions    []string `json:"availableActions,omitempty"`
}

// FailedResult builds a failure result. An empty message is replaced so that
// a failed result always carries an error.
func FailedResult(tag types.ResultTag, msg string) *ActionResult {
	if msg == "" {
		msg = "unknown error"
	}
	return &ActionResult{
		Success: false,
		Action:  tag,
		Error:   msg,
	}
}

// MergeResult is returned by a VCS provider merge operation
type MergeResult struct {
	Success bool
	SHA     string
	Merged  bool
	Message string
	Error   string
	Status  int
}

// GrantResult is returned by a VCS provider grant operation
type GrantResult struct {
	Success    bool
	Username   string
	Permission types.Permission
	Error      string
	Status     int
}

// RevokeResult is returned by a VCS provider revoke operation
type RevokeResult struct {
	Success             bool
	Username            string
	Operation           string
	InvitationID        int64
	CollaboratorRemoved bool
	InvitationCancelled bool
	Error               string
	Status              int
}
