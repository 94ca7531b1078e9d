package chain

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultDeadlineWindow is added to the block timestamp when a signal carries
// no decodable deadline
const DefaultDeadlineWindow = 24 * time.Hour

// Reader is the subset of the Ethereum JSON-RPC API used by Fetcher.
// *ethclient.Client satisfies it.
type Reader interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*ethtypes.Header, error)
}

// Fetcher fetches transaction receipts and decodes CogniAction events
type Fetcher struct {
	reader         Reader
	deadlineWindow time.Duration
}

// FetcherOption configures a Fetcher
type FetcherOption func(*Fetcher)

// WithDeadlineWindow overrides DefaultDeadlineWindow
func WithDeadlineWindow(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.deadlineWindow = d
	}
}

// NewFetcher creates a Fetcher reading from reader
func NewFetcher(reader Reader, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		reader:         reader,
		deadlineWindow: DefaultDeadlineWindow,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAndDecode returns the first CogniAction event emitted by contract in the
// transaction, or nil when there is none. Only RPC failures are errors.
func (f *Fetcher) FetchAndDecode(ctx context.Context, txHash, contract string) (*model.DecodedSignal, error) {
	logger := ctxlog.From(ctx).With("tx_hash", txHash)

	raw, err := hexutil.Decode(txHash)
	if err != nil || len(raw) != common.HashLength {
		logger.Debug("skip malformed transaction hash")
		return nil, nil
	}
	if !common.IsHexAddress(contract) {
		logger.Debug("skip malformed contract address", "contract", contract)
		return nil, nil
	}
	contractAddr := common.HexToAddress(contract)

	receipt, err := f.reader.TransactionReceipt(ctx, common.BytesToHash(raw))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			logger.Debug("transaction receipt not found")
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to fetch transaction receipt", goerr.V("tx_hash", txHash))
	}

	for _, log := range receipt.Logs {
		if log == nil || log.Address != contractAddr {
			continue
		}
		if len(log.Topics) == 0 || log.Topics[0] != EventID() {
			continue
		}

		signal, err := DecodeLog(*log)
		if err != nil {
			logger.Warn("failed to decode CogniAction log", "error", err, "log_index", log.Index)
			return nil, nil
		}

		if !signal.ExtraDecoded {
			deadline, err := f.fallbackDeadline(ctx, receipt)
			if err != nil {
				return nil, err
			}
			signal.Deadline = deadline
			logger.Warn("extra field not decodable, using defaults",
				"deadline", deadline, "log_index", log.Index)
		}

		return &model.DecodedSignal{
			Signal:   *signal,
			TxHash:   txHash,
			LogIndex: log.Index,
		}, nil
	}

	logger.Debug("no CogniAction event in transaction", "contract", contractAddr.Hex())
	return nil, nil
}

func (f *Fetcher) fallbackDeadline(ctx context.Context, receipt *ethtypes.Receipt) (uint64, error) {
	header, err := f.reader.HeaderByNumber(ctx, receipt.BlockNumber)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to fetch block header",
			goerr.V("block_number", receipt.BlockNumber))
	}
	return header.Time + uint64(f.deadlineWindow/time.Second), nil
}
