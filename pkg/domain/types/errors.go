package types

import "errors"

var (
	// ErrValidation marks a signal rejected by a validation gate
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized marks a DAO that may not act on a repository
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnimplemented marks a known VCS host without a provider yet
	ErrUnimplemented = errors.New("not implemented")

	// ErrUnsupportedVCS marks an unknown VCS value
	ErrUnsupportedVCS = errors.New("unsupported VCS")

	// ErrUnknownAction marks an action:target pair with no registered handler
	ErrUnknownAction = errors.New("unknown action")

	// ErrInvalidRepoURL marks a repository URL that cannot be parsed
	ErrInvalidRepoURL = errors.New("invalid repository URL")

	// ErrUnknownProvider marks a chain-data provider with no adapter
	ErrUnknownProvider = errors.New("unknown provider")
)
