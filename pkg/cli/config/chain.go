package config

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Chain holds on-chain configuration: the RPC endpoint used to fetch
// receipts and the single DAO, chain and contract this instance trusts.
type Chain struct {
	RPCURL             string `masq:"secret"`
	ChainID            string
	SignalContract     string
	DAOAddress         string
	AlchemySigningKey  string `masq:"secret"`
	RequireSignalExtra bool
}

// Flags returns CLI flags for chain configuration
func (c *Chain) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "evm-rpc-url",
			Usage:       "EVM JSON-RPC endpoint used to fetch transaction receipts",
			Required:    true,
			Destination: &c.RPCURL,
			Sources:     cli.EnvVars("COGNI_EVM_RPC_URL"),
		},
		&cli.StringFlag{
			Name:        "chain-id",
			Usage:       "Chain ID signals must originate from",
			Required:    true,
			Destination: &c.ChainID,
			Sources:     cli.EnvVars("COGNI_CHAIN_ID"),
		},
		&cli.StringFlag{
			Name:        "signal-contract",
			Usage:       "Address of the contract emitting CogniAction events",
			Required:    true,
			Destination: &c.SignalContract,
			Sources:     cli.EnvVars("COGNI_SIGNAL_CONTRACT"),
		},
		&cli.StringFlag{
			Name:        "dao-address",
			Usage:       "DAO address allowed to emit signals",
			Required:    true,
			Destination: &c.DAOAddress,
			Sources:     cli.EnvVars("COGNI_DAO_ADDRESS"),
		},
		&cli.StringFlag{
			Name:        "alchemy-signing-key",
			Usage:       "Alchemy webhook signing key",
			Required:    true,
			Destination: &c.AlchemySigningKey,
			Sources:     cli.EnvVars("COGNI_ALCHEMY_SIGNING_KEY"),
		},
		&cli.BoolFlag{
			Name:        "require-signal-extra",
			Usage:       "Reject signals whose nonce and deadline cannot be decoded",
			Destination: &c.RequireSignalExtra,
			Sources:     cli.EnvVars("COGNI_REQUIRE_SIGNAL_EXTRA"),
		},
	}
}

// ChainIDInt parses ChainID as a base 10 integer
func (c *Chain) ChainIDInt() (*big.Int, error) {
	id, ok := new(big.Int).SetString(c.ChainID, 10)
	if !ok || id.Sign() <= 0 {
		return nil, goerr.New("invalid chain id", goerr.V("chain_id", c.ChainID))
	}
	return id, nil
}

// Validate checks addresses and the chain ID
func (c *Chain) Validate() error {
	if _, err := c.ChainIDInt(); err != nil {
		return err
	}
	if !common.IsHexAddress(c.SignalContract) {
		return goerr.New("invalid signal contract address", goerr.V("address", c.SignalContract))
	}
	if !common.IsHexAddress(c.DAOAddress) {
		return goerr.New("invalid DAO address", goerr.V("address", c.DAOAddress))
	}
	if c.AlchemySigningKey == "" {
		return goerr.New("alchemy signing key is required")
	}
	return nil
}

// NewClient dials the configured RPC endpoint
func (c *Chain) NewClient(ctx context.Context) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, c.RPCURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to dial EVM RPC endpoint")
	}
	return client, nil
}
