package model

import (
	"log/slog"
	"math/big"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
)

// Signal is a decoded CogniAction governance event
type Signal struct {
	DAO        string // DAO contract address that emitted the vote result
	ChainID    *big.Int
	VCS        types.VCS
	RepoURL    string
	Action     types.Action
	Target     types.Target
	Resource   string // change number or username, depending on Action/Target
	Nonce      *big.Int
	Deadline   uint64 // unix seconds
	ParamsJSON string
	Executor   string // address that triggered execution of the vote

	// ExtraDecoded is false when nonce/deadline/params fell back to defaults
	ExtraDecoded bool
}

// Key returns the "action:target" pair selecting a handler
func (s Signal) Key() string {
	return string(s.Action) + ":" + string(s.Target)
}

// LogValue renders the signal for structured logging
func (s Signal) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("dao", s.DAO),
		slog.String("chain_id", bigString(s.ChainID)),
		slog.String("vcs", string(s.VCS)),
		slog.String("repo_url", s.RepoURL),
		slog.String("action", string(s.Action)),
		slog.String("target", string(s.Target)),
		slog.String("resource", s.Resource),
		slog.String("nonce", bigString(s.Nonce)),
		slog.Uint64("deadline", s.Deadline),
		slog.String("params_json", s.ParamsJSON),
		slog.String("executor", s.Executor),
		slog.Bool("extra_decoded", s.ExtraDecoded),
	)
}

// DecodedSignal is a Signal together with the log it was decoded from
type DecodedSignal struct {
	Signal
	TxHash   string
	LogIndex uint
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
