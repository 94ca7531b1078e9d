package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
	"github.com/cogni-dao/cogni-git-admin/pkg/usecase"
	"github.com/m-mizutani/gt"
)

const contract = "0x1111111111111111111111111111111111111111"

func decoded(hash, resource string, mutate func(s *model.Signal)) *model.DecodedSignal {
	s := validSignal()
	s.Resource = resource
	if mutate != nil {
		mutate(&s)
	}
	return &model.DecodedSignal{Signal: s, TxHash: hash}
}

func delivery(hashes ...string) *model.WebhookParseResult {
	return &model.WebhookParseResult{
		Provider:   types.ProviderAlchemy,
		DeliveryID: "delivery-1",
		TxHashes:   hashes,
		ReceivedAt: time.Unix(nowUnix, 0),
	}
}

func TestSignalUseCase_ProcessDelivery(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes are processed in order and rejections do not stop the delivery", func(t *testing.T) {
		fetcher := &mockFetcher{signals: map[string]*model.DecodedSignal{
			"0x1": decoded("0x1", "1", nil),
			"0x2": decoded("0x2", "2", func(s *model.Signal) { s.ChainID = big.NewInt(1) }),
			"0x4": decoded("0x4", "4", nil),
		}}
		executor := &mockExecutor{}
		uc := usecase.NewSignalUseCase(fetcher, contract, newValidator(), executor)

		report, err := uc.ProcessDelivery(ctx, delivery("0x1", "0x2", "0x3", "0x4"))
		gt.NoError(t, err)

		gt.Equal(t, fetcher.calls, []string{"0x1", "0x2", "0x3", "0x4"})
		gt.Equal(t, len(executor.calls), 2)
		gt.Equal(t, executor.calls[0].Resource, "1")
		gt.Equal(t, executor.calls[1].Resource, "4")

		gt.Equal(t, report.DeliveryID, "delivery-1")
		gt.Equal(t, len(report.Outcomes), 3)
		gt.Equal(t, report.Dispatched(), 2)
		gt.Equal(t, report.ValidationErrors(), []string{"chain mismatch: got 1, want 11155111"})
		gt.Equal(t, report.Outcomes[1].Signal, "merge:change")
	})

	t.Run("all rejected", func(t *testing.T) {
		fetcher := &mockFetcher{signals: map[string]*model.DecodedSignal{
			"0x1": decoded("0x1", "1", func(s *model.Signal) { s.DAO = "0xother" }),
		}}
		executor := &mockExecutor{}
		uc := usecase.NewSignalUseCase(fetcher, contract, newValidator(), executor)

		report, err := uc.ProcessDelivery(ctx, delivery("0x1"))
		gt.NoError(t, err)
		gt.Equal(t, report.Dispatched(), 0)
		gt.Equal(t, len(report.ValidationErrors()), 1)
		gt.Equal(t, len(executor.calls), 0)
	})

	t.Run("no signals", func(t *testing.T) {
		uc := usecase.NewSignalUseCase(&mockFetcher{}, contract, newValidator(), &mockExecutor{})

		report, err := uc.ProcessDelivery(ctx, delivery("0x1", "0x2"))
		gt.NoError(t, err)
		gt.Equal(t, len(report.Outcomes), 0)
	})

	t.Run("fetch failure aborts the delivery", func(t *testing.T) {
		fetcher := &mockFetcher{
			signals: map[string]*model.DecodedSignal{"0x1": decoded("0x1", "1", nil)},
			errs:    map[string]error{"0x2": errors.New("rpc unavailable")},
		}
		executor := &mockExecutor{}
		uc := usecase.NewSignalUseCase(fetcher, contract, newValidator(), executor)

		report, err := uc.ProcessDelivery(ctx, delivery("0x1", "0x2", "0x3"))
		gt.Error(t, err)
		gt.String(t, err.Error()).Contains("rpc unavailable")
		gt.Equal(t, report.Dispatched(), 1)
		gt.Equal(t, fetcher.calls, []string{"0x1", "0x2"})
	})

	t.Run("failed execution still counts as dispatched", func(t *testing.T) {
		fetcher := &mockFetcher{signals: map[string]*model.DecodedSignal{"0x1": decoded("0x1", "1", nil)}}
		executor := &mockExecutor{results: map[string]*model.ActionResult{
			"1": model.FailedResult(types.ResultMergeFailed, "not mergeable"),
		}}
		uc := usecase.NewSignalUseCase(fetcher, contract, newValidator(), executor)

		report, err := uc.ProcessDelivery(ctx, delivery("0x1"))
		gt.NoError(t, err)
		gt.Equal(t, report.Dispatched(), 1)
		gt.False(t, report.Results()[0].Success)
	})

	t.Run("results are sent to the audit notifier", func(t *testing.T) {
		fetcher := &mockFetcher{signals: map[string]*model.DecodedSignal{
			"0x1": decoded("0x1", "1", nil),
			"0x2": decoded("0x2", "2", nil),
		}}
		notifier := &mockNotifier{}
		uc := usecase.NewSignalUseCase(fetcher, contract, newValidator(), &mockExecutor{},
			usecase.WithAuditNotifier(notifier))

		_, err := uc.ProcessDelivery(ctx, delivery("0x1", "0x2"))
		gt.NoError(t, err)
		gt.NoError(t, uc.Wait(ctx))
		gt.Equal(t, notifier.count(), 2)
	})

	t.Run("nil delivery", func(t *testing.T) {
		uc := usecase.NewSignalUseCase(&mockFetcher{}, contract, newValidator(), &mockExecutor{})
		report, err := uc.ProcessDelivery(ctx, nil)
		gt.NoError(t, err)
		gt.Equal(t, report.Dispatched(), 0)
	})
}
