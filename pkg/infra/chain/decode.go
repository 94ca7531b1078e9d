package chain

import (
	"math/big"
	"strings"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/m-mizutani/goerr/v2"
)

// CogniActionABI is the ABI of the governance event consumed by the bridge
const CogniActionABI = `[{
  "type": "event",
  "name": "CogniAction",
  "anonymous": false,
  "inputs": [
    {"name": "dao", "type": "address", "indexed": true},
    {"name": "chainId", "type": "uint256", "indexed": true},
    {"name": "repoUrl", "type": "string", "indexed": false},
    {"name": "action", "type": "string", "indexed": false},
    {"name": "target", "type": "string", "indexed": false},
    {"name": "resource", "type": "string", "indexed": false},
    {"name": "extra", "type": "bytes", "indexed": false},
    {"name": "executor", "type": "address", "indexed": true}
  ]
}]`

const eventName = "CogniAction"

var (
	cogniEvent abi.Event
	extraArgs  abi.Arguments
)

func init() {
	parsed, err := abi.JSON(strings.NewReader(CogniActionABI))
	if err != nil {
		panic(err)
	}
	cogniEvent = parsed.Events[eventName]

	extraArgs = abi.Arguments{
		{Name: "nonce", Type: mustType("uint256")},
		{Name: "deadline", Type: mustType("uint64")},
		{Name: "paramsJson", Type: mustType("string")},
	}
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// EventID returns topic-0 of the CogniAction event
func EventID() common.Hash {
	return cogniEvent.ID
}

// EncodeExtra ABI-encodes the nested (nonce, deadline, paramsJson) tuple
// carried in the event's extra field.
func EncodeExtra(nonce *big.Int, deadline uint64, paramsJSON string) ([]byte, error) {
	if nonce == nil {
		nonce = new(big.Int)
	}
	data, err := extraArgs.Pack(nonce, deadline, paramsJSON)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode extra")
	}
	return data, nil
}

type extraFields struct {
	nonce      *big.Int
	deadline   uint64
	paramsJSON string
}

func decodeExtra(data []byte) (*extraFields, error) {
	if len(data) == 0 {
		return nil, goerr.New("extra is empty")
	}
	values, err := extraArgs.Unpack(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode extra")
	}
	if len(values) != 3 {
		return nil, goerr.New("unexpected extra arity", goerr.V("count", len(values)))
	}

	nonce, ok1 := values[0].(*big.Int)
	deadline, ok2 := values[1].(uint64)
	params, ok3 := values[2].(string)
	if !ok1 || !ok2 || !ok3 {
		return nil, goerr.New("unexpected extra field types")
	}
	return &extraFields{nonce: nonce, deadline: deadline, paramsJSON: params}, nil
}

// DecodeLog decodes a CogniAction log into a Signal. When extra is absent or
// malformed, Nonce/Deadline/ParamsJSON are left at zero values and
// ExtraDecoded is false; callers supply the defaults.
func DecodeLog(log ethtypes.Log) (*model.Signal, error) {
	if len(log.Topics) != 4 {
		return nil, goerr.New("unexpected topic count", goerr.V("count", len(log.Topics)))
	}
	if log.Topics[0] != cogniEvent.ID {
		return nil, goerr.New("log is not a CogniAction event", goerr.V("topic0", log.Topics[0].Hex()))
	}

	values, err := cogniEvent.Inputs.Unpack(log.Data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unpack CogniAction data")
	}
	if len(values) != 5 {
		return nil, goerr.New("unexpected CogniAction arity", goerr.V("count", len(values)))
	}

	repoURL, _ := values[0].(string)
	action := types.Action(asString(values[1]))
	target := types.Target(asString(values[2]))
	resource, _ := values[3].(string)
	extra, _ := values[4].([]byte)

	if !action.Valid() {
		return nil, goerr.New("invalid action", goerr.V("action", action))
	}
	if !target.Valid() {
		return nil, goerr.New("invalid target", goerr.V("target", target))
	}

	signal := &model.Signal{
		DAO:      common.BytesToAddress(log.Topics[1].Bytes()).Hex(),
		ChainID:  new(big.Int).SetBytes(log.Topics[2].Bytes()),
		VCS:      model.DetectVCS(repoURL),
		RepoURL:  repoURL,
		Action:   action,
		Target:   target,
		Resource: resource,
		Nonce:    new(big.Int),
		Executor: common.BytesToAddress(log.Topics[3].Bytes()).Hex(),
	}

	if fields, err := decodeExtra(extra); err == nil {
		signal.Nonce = fields.nonce
		signal.Deadline = fields.deadline
		signal.ParamsJSON = fields.paramsJSON
		signal.ExtraDecoded = true
	}

	return signal, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
