package model

import "github.com/cogni-dao/cogni-git-admin/pkg/domain/types"

// MergeParams are the optional parameters of merge:change
type MergeParams struct {
	MergeMethod   types.MergeMethod `json:"merge_method,omitempty"`
	CommitTitle   string            `json:"commit_title,omitempty"`
	CommitMessage string            `json:"commit_message,omitempty"`
}

// GrantParams are the optional parameters of grant:collaborator
type GrantParams struct {
	Permission types.Permission `json:"permission,omitempty"`
}

// RevokeParams are the parameters of revoke:collaborator. It accepts none.
type RevokeParams struct{}
