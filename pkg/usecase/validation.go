package usecase

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
	"github.com/cogni-dao/cogni-git-admin/pkg/usecase/action"
)

// ValidationError is a signal rejected before dispatch
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Is matches types.ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == types.ErrValidation
}

func rejectf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NonceLedger records consumed nonces for replay protection
type NonceLedger interface {
	// Check returns an error when the nonce was already used by dao
	Check(ctx context.Context, dao string, nonce *big.Int) error
}

type noopLedger struct{}

func (noopLedger) Check(context.Context, string, *big.Int) error { return nil }

// Validator applies the chain/DAO gate, the freshness gate and per-action
// parameter validation
type Validator struct {
	chainID      *big.Int
	dao          string
	requireExtra bool
	ledger       NonceLedger
	actions      *action.Registry
	now          func() time.Time
}

// ValidatorOption configures a Validator
type ValidatorOption func(*Validator)

// WithRequireExtra rejects signals whose extra field did not decode
func WithRequireExtra(require bool) ValidatorOption {
	return func(v *Validator) {
		v.requireExtra = require
	}
}

// WithNonceLedger installs a replay-protection ledger
func WithNonceLedger(l NonceLedger) ValidatorOption {
	return func(v *Validator) {
		v.ledger = l
	}
}

// WithClock overrides the clock used by the freshness gate
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.now = now
	}
}

// NewValidator creates a validator allowing one chain and one DAO
func NewValidator(chainID *big.Int, dao string, actions *action.Registry, opts ...ValidatorOption) *Validator {
	v := &Validator{
		chainID: chainID,
		dao:     strings.ToLower(dao),
		ledger:  noopLedger{},
		actions: actions,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate returns a *ValidationError when the signal must not be dispatched
func (v *Validator) Validate(ctx context.Context, s model.Signal) error {
	if err := v.checkChainAndDAO(s); err != nil {
		return err
	}
	if err := v.checkFreshness(ctx, s); err != nil {
		return err
	}
	return v.checkParams(s)
}

func (v *Validator) checkChainAndDAO(s model.Signal) error {
	if s.ChainID == nil || v.chainID == nil || s.ChainID.Cmp(v.chainID) != 0 {
		return rejectf("chain mismatch: got %s, want %s", bigOrNil(s.ChainID), bigOrNil(v.chainID))
	}
	if strings.ToLower(s.DAO) != v.dao {
		return rejectf("DAO mismatch: got %s, want %s", strings.ToLower(s.DAO), v.dao)
	}
	return nil
}

func (v *Validator) checkFreshness(ctx context.Context, s model.Signal) error {
	if v.requireExtra && !s.ExtraDecoded {
		return rejectf("signal has no decodable nonce/deadline")
	}
	if s.Nonce != nil && s.Nonce.Sign() < 0 {
		return rejectf("nonce must not be negative")
	}

	now := v.now().Unix()
	if now > 0 && s.Deadline < uint64(now) {
		return rejectf("signal expired: deadline %d is before %d", s.Deadline, now)
	}

	if err := v.ledger.Check(ctx, s.DAO, s.Nonce); err != nil {
		return rejectf("nonce rejected: %s", err.Error())
	}
	return nil
}

func (v *Validator) checkParams(s model.Signal) error {
	if v.actions == nil {
		return nil
	}
	h, err := v.actions.Get(s.Action, s.Target)
	if err != nil {
		// unknown pairs are reported by the executor
		return nil
	}
	if _, err := h.ParseParams(s.ParamsJSON); err != nil {
		return rejectf("invalid params for %s: %s", s.Key(), err.Error())
	}
	return nil
}

func bigOrNil(v *big.Int) string {
	if v == nil {
		return "<nil>"
	}
	return v.String()
}
