package interfaces

//go:generate moq -out mocks/usecase_mock.go -pkg mocks . SignalUseCase Executor AuditNotifier

import (
	"context"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
)

// SignalUseCase processes the transactions of one webhook delivery
type SignalUseCase interface {
	// ProcessDelivery handles every transaction hash of the delivery in order
	ProcessDelivery(ctx context.Context, delivery *model.WebhookParseResult) (*model.DeliveryReport, error)
}

// Executor runs one validated signal against its VCS host
type Executor interface {
	Execute(ctx context.Context, signal model.Signal) *model.ActionResult
}

// AuditNotifier publishes action results to an external audit channel
type AuditNotifier interface {
	Notify(ctx context.Context, signal model.DecodedSignal, result *model.ActionResult) error
}
