package onchain

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// AlchemySignatureHeader carries the hex HMAC-SHA256 of the raw body
const AlchemySignatureHeader = "X-Alchemy-Signature"

// alchemyPayload covers both the custom (GraphQL) webhook and the
// address-activity webhook shapes.
type alchemyPayload struct {
	WebhookID string `json:"webhookId"`
	ID        string `json:"id"`
	Type      string `json:"type"`
	Event     *struct {
		Data *struct {
			Block *struct {
				Logs []struct {
					Transaction *struct {
						Hash string `json:"hash"`
					} `json:"transaction"`
				} `json:"logs"`
			} `json:"block"`
		} `json:"data"`
		Activity []struct {
			Hash string `json:"hash"`
		} `json:"activity"`
	} `json:"event"`
}

// Alchemy adapts Alchemy Notify webhooks
type Alchemy struct {
	signingKey []byte
	now        func() time.Time
}

// AlchemyOption configures an Alchemy adapter
type AlchemyOption func(*Alchemy)

// WithAlchemyClock overrides the clock used for ReceivedAt
func WithAlchemyClock(now func() time.Time) AlchemyOption {
	return func(a *Alchemy) {
		a.now = now
	}
}

// NewAlchemy creates an Alchemy adapter verifying deliveries with signingKey
func NewAlchemy(signingKey string, opts ...AlchemyOption) *Alchemy {
	a := &Alchemy{
		signingKey: []byte(signingKey),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ID returns the provider identifier
func (a *Alchemy) ID() types.ProviderID {
	return types.ProviderAlchemy
}

// Detect recognises the signature header or the Alchemy envelope
func (a *Alchemy) Detect(header http.Header, body []byte) bool {
	if header.Get(AlchemySignatureHeader) != "" {
		return true
	}

	var payload alchemyPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return false
	}
	return payload.WebhookID != "" && payload.Event != nil
}

// VerifySignature checks the HMAC of the raw body. Without a signing key
// every delivery is rejected.
func (a *Alchemy) VerifySignature(header http.Header, body []byte) bool {
	if len(a.signingKey) == 0 {
		return false
	}

	signature := strings.TrimSpace(header.Get(AlchemySignatureHeader))
	if signature == "" {
		return false
	}
	given, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, a.signingKey)
	mac.Write(body)
	return hmac.Equal(given, mac.Sum(nil))
}

// Parse extracts the transaction hashes referenced by the delivery, in
// delivery order and without duplicates.
func (a *Alchemy) Parse(header http.Header, body []byte) (*model.WebhookParseResult, error) {
	var payload alchemyPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, goerr.Wrap(err, "failed to parse Alchemy payload")
	}
	if payload.Event == nil {
		return nil, goerr.New("Alchemy payload has no event", goerr.V("webhook_id", payload.WebhookID))
	}

	var hashes []string
	seen := make(map[string]struct{})
	add := func(hash string) {
		hash = strings.TrimSpace(hash)
		if hash == "" {
			return
		}
		key := strings.ToLower(hash)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		hashes = append(hashes, hash)
	}

	if data := payload.Event.Data; data != nil && data.Block != nil {
		for _, log := range data.Block.Logs {
			if log.Transaction != nil {
				add(log.Transaction.Hash)
			}
		}
	}
	for _, activity := range payload.Event.Activity {
		add(activity.Hash)
	}

	deliveryID := payload.ID
	if deliveryID == "" {
		deliveryID = uuid.New().String()
	}

	return &model.WebhookParseResult{
		Provider:   types.ProviderAlchemy,
		DeliveryID: deliveryID,
		TxHashes:   hashes,
		ReceivedAt: a.now(),
	}, nil
}
