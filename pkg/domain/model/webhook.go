package model

import (
	"time"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
)

// WebhookParseResult is what a chain-data provider adapter extracts from a delivery
type WebhookParseResult struct {
	Provider   types.ProviderID
	DeliveryID string
	TxHashes   []string
	ReceivedAt time.Time
}

// HasTransactions reports whether the delivery carries any transaction hash
func (r *WebhookParseResult) HasTransactions() bool {
	return r != nil && len(r.TxHashes) > 0
}

// TxOutcome records what happened to one transaction hash of a delivery
type TxOutcome struct {
	TxHash          string        `json:"txHash"`
	LogIndex        uint          `json:"logIndex"`
	Signal          string        `json:"signal"`
	ValidationError string        `json:"validationError,omitempty"`
	Result          *ActionResult `json:"result,omitempty"`
}

// DeliveryReport aggregates the outcomes of all transaction hashes in a delivery
type DeliveryReport struct {
	DeliveryID string      `json:"deliveryId"`
	Outcomes   []TxOutcome `json:"outcomes"`
}

// Dispatched counts signals that reached the executor
func (r *DeliveryReport) Dispatched() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Result != nil {
			n++
		}
	}
	return n
}

// ValidationErrors lists the validation failures, one per rejected signal
func (r *DeliveryReport) ValidationErrors() []string {
	var errs []string
	for _, o := range r.Outcomes {
		if o.ValidationError != "" {
			errs = append(errs, o.ValidationError)
		}
	}
	return errs
}

// Results lists the action results of dispatched signals
func (r *DeliveryReport) Results() []*ActionResult {
	var results []*ActionResult
	for _, o := range r.Outcomes {
		if o.Result != nil {
			results = append(results, o.Result)
		}
	}
	return results
}
