package interfaces

import (
	"context"
	"net/http"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
)

// ChainProvider adapts one chain-data webhook provider
type ChainProvider interface {
	ID() types.ProviderID

	// Detect reports whether a delivery looks like it came from this provider
	Detect(header http.Header, body []byte) bool

	// VerifySignature checks the authenticity of the raw delivery body
	VerifySignature(header http.Header, body []byte) bool

	// Parse extracts transaction hashes from the delivery
	Parse(header http.Header, body []byte) (*model.WebhookParseResult, error)
}

// SignalFetcher retrieves a transaction's logs and decodes the CogniAction event
// emitted by contract. It returns nil without error when the transaction carries no matching event.
type SignalFetcher interface {
	FetchAndDecode(ctx context.Context, txHash, contract string) (*model.DecodedSignal, error)
}

// ChainProviderRegistry selects the adapter a delivery belongs to
type ChainProviderRegistry interface {
	Detect(header http.Header, body []byte) (types.ProviderID, bool)
	Get(id types.ProviderID) (ChainProvider, error)
}
