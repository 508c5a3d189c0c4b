// Package chain reads per-token claim state from the airdrop
// distributor contract over a JSON-RPC endpoint.
package chain

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"github.com/Mrudul2k/yeet-magic-scanner/internal/model"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/serviceerrs"
)

const (
	methodClaimed   = "claimed"
	methodClaimable = "claimable"

	// Both view accessors return fixed-point uints with 18 implied
	// fractional digits.
	tokenDecimals = 18
)

var distributorABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(`[
  {
    "name": "claimable",
    "type": "function",
    "inputs": [{ "name": "tokenId", "type": "uint256" }],
    "outputs": [{ "name": "", "type": "uint256" }],
    "stateMutability": "view"
  },
  {
    "name": "claimed",
    "type": "function",
    "inputs": [{ "name": "tokenId", "type": "uint256" }],
    "outputs": [{ "name": "", "type": "uint256" }],
    "stateMutability": "view"
  }
]`))
	if err != nil {
		panic(err)
	}
	distributorABI = parsed
}

// ContractCaller is the slice of ethclient.Client the reader needs.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type Reader struct {
	caller   ContractCaller
	contract common.Address
	timeout  time.Duration
}

func New(caller ContractCaller, contractHex string, timeout time.Duration) *Reader {
	if timeout <= 0 {
		timeout = model.DefaultReadTimeout
	}
	return &Reader{
		caller:   caller,
		contract: common.HexToAddress(contractHex),
		timeout:  timeout,
	}
}

// Dial connects to the RPC endpoint and wraps it in a Reader.
func Dial(ctx context.Context, rpcURL, contractHex string, timeout time.Duration) (*Reader, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return New(client, contractHex, timeout), nil
}

// ReadClaimState issues the two independent view calls for one token
// ID. The calls carry separate timeouts; a failure in either surfaces
// as a ChainReadError and is never substituted with zero.
func (r *Reader) ReadClaimState(ctx context.Context, tokenID uint64) (model.ClaimState, error) {
	claimed, err := r.callUint(ctx, methodClaimed, tokenID)
	if err != nil {
		return model.ClaimState{}, err
	}
	claimable, err := r.callUint(ctx, methodClaimable, tokenID)
	if err != nil {
		return model.ClaimState{}, err
	}

	return model.ClaimState{
		TokenID:   tokenID,
		Claimed:   decimal.NewFromBigInt(claimed, -tokenDecimals),
		Claimable: decimal.NewFromBigInt(claimable, -tokenDecimals),
	}, nil
}

func (r *Reader) callUint(ctx context.Context, method string, tokenID uint64) (*big.Int, error) {
	data, err := distributorABI.Pack(method, new(big.Int).SetUint64(tokenID))
	if err != nil {
		return nil, readErr(tokenID, method, serviceerrs.ChainReadPermanent, err)
	}

	tCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	out, err := r.caller.CallContract(tCtx, ethereum.CallMsg{
		To:   &r.contract,
		Data: data,
	}, nil)
	if err != nil {
		return nil, readErr(tokenID, method, classify(err), err)
	}
	if len(out) == 0 {
		return nil, readErr(tokenID, method, serviceerrs.ChainReadPermanent,
			errors.New("empty return data"))
	}

	values, err := distributorABI.Unpack(method, out)
	if err != nil {
		return nil, readErr(tokenID, method, serviceerrs.ChainReadPermanent, err)
	}
	raw, ok := values[0].(*big.Int)
	if !ok {
		return nil, readErr(tokenID, method, serviceerrs.ChainReadPermanent,
			errors.New("unexpected return type"))
	}
	return raw, nil
}

// classify tags reverts as permanent and everything else (network
// faults, timeouts, rate limits) as transient and retryable.
func classify(err error) serviceerrs.ChainReadKind {
	if strings.Contains(err.Error(), "execution reverted") {
		return serviceerrs.ChainReadPermanent
	}
	return serviceerrs.ChainReadTransient
}

func readErr(tokenID uint64, call string, kind serviceerrs.ChainReadKind, err error) error {
	return &serviceerrs.ChainReadError{
		TokenID: tokenID,
		Call:    call,
		Kind:    kind,
		Err:     err,
	}
}
