package usecase

import (
	"context"
	"errors"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/interfaces"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/utils/async"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// SignalUseCase turns a webhook delivery into executed governance actions
type SignalUseCase struct {
	fetcher   interfaces.SignalFetcher
	contract  string
	validator *Validator
	executor  interfaces.Executor
	notifier  interfaces.AuditNotifier
	pending   async.Group
}

var _ interfaces.SignalUseCase = (*SignalUseCase)(nil)

// SignalOption configures a SignalUseCase
type SignalOption func(*SignalUseCase)

// WithAuditNotifier publishes every action result
func WithAuditNotifier(n interfaces.AuditNotifier) SignalOption {
	return func(uc *SignalUseCase) {
		uc.notifier = n
	}
}

// NewSignalUseCase creates the pipeline for events emitted by contract
func NewSignalUseCase(fetcher interfaces.SignalFetcher, contract string, validator *Validator, executor interfaces.Executor, opts ...SignalOption) *SignalUseCase {
	uc := &SignalUseCase{
		fetcher:   fetcher,
		contract:  contract,
		validator: validator,
		executor:  executor,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ProcessDelivery handles the delivery's transaction hashes strictly in order.
// Validation failures are recorded per hash; an RPC failure aborts the delivery.
func (uc *SignalUseCase) ProcessDelivery(ctx context.Context, delivery *model.WebhookParseResult) (*model.DeliveryReport, error) {
	report := &model.DeliveryReport{}
	if delivery == nil {
		return report, nil
	}
	report.DeliveryID = delivery.DeliveryID

	logger := ctxlog.From(ctx).With("delivery_id", delivery.DeliveryID, "provider", delivery.Provider)
	ctx = ctxlog.With(ctx, logger)

	for _, hash := range delivery.TxHashes {
		decoded, err := uc.fetcher.FetchAndDecode(ctx, hash, uc.contract)
		if err != nil {
			return report, goerr.Wrap(err, "failed to fetch signal", goerr.V("tx_hash", hash))
		}
		if decoded == nil {
			logger.Debug("no signal in transaction", "tx_hash", hash)
			continue
		}

		outcome := model.TxOutcome{
			TxHash:   hash,
			LogIndex: decoded.LogIndex,
			Signal:   decoded.Key(),
		}

		if err := uc.validator.Validate(ctx, decoded.Signal); err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return report, goerr.Wrap(err, "failed to validate signal", goerr.V("tx_hash", hash))
			}
			logger.Warn("signal rejected", "tx_hash", hash, "reason", verr.Reason, "signal", decoded.Signal)
			outcome.ValidationError = verr.Reason
			report.Outcomes = append(report.Outcomes, outcome)
			continue
		}

		result := uc.executor.Execute(ctx, decoded.Signal)
		outcome.Result = result
		report.Outcomes = append(report.Outcomes, outcome)

		uc.notify(ctx, *decoded, result)
	}

	logger.Info("delivery processed",
		"tx_count", len(delivery.TxHashes),
		"dispatched", report.Dispatched(),
		"rejected", len(report.ValidationErrors()))
	return report, nil
}

func (uc *SignalUseCase) notify(ctx context.Context, signal model.DecodedSignal, result *model.ActionResult) {
	if uc.notifier == nil {
		return
	}
	uc.pending.Dispatch(ctx, func(ctx context.Context) error {
		return uc.notifier.Notify(ctx, signal, result)
	})
}

// Wait blocks until pending audit notifications are delivered or ctx is done
func (uc *SignalUseCase) Wait(ctx context.Context) error {
	return uc.pending.Wait(ctx)
}
