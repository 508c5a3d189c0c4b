package chain

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mrudul2k/yeet-magic-scanner/internal/serviceerrs"
)

const testContract = "0x1d6Bbc466BBd0150a5E91BF337fa696A8f3Fa3D7"

type fakeCaller struct {
	outputs map[string][]byte
	errs    map[string]error
}

func (f *fakeCaller) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	selector := hex.EncodeToString(call.Data[:4])
	if err, ok := f.errs[selector]; ok {
		return nil, err
	}
	return f.outputs[selector], nil
}

func selector(t *testing.T, method string) string {
	t.Helper()
	m, ok := distributorABI.Methods[method]
	require.True(t, ok)
	return hex.EncodeToString(m.ID)
}

func packUint(t *testing.T, method string, v *big.Int) []byte {
	t.Helper()
	out, err := distributorABI.Methods[method].Outputs.Pack(v)
	require.NoError(t, err)
	return out
}

func scaled(units int64) *big.Int {
	wei := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return new(big.Int).Mul(big.NewInt(units), wei)
}

func TestReader_ReadClaimState(t *testing.T) {
	caller := &fakeCaller{
		outputs: map[string][]byte{
			selector(t, methodClaimed):   packUint(t, methodClaimed, scaled(3)),
			selector(t, methodClaimable): packUint(t, methodClaimable, scaled(5)),
		},
	}
	r := New(caller, testContract, time.Second)

	state, err := r.ReadClaimState(context.Background(), 12)
	require.NoError(t, err)

	assert.Equal(t, uint64(12), state.TokenID)
	assert.True(t, state.Claimed.Equal(decimal.RequireFromString("3")),
		"claimed = %s", state.Claimed)
	assert.True(t, state.Claimable.Equal(decimal.RequireFromString("5")),
		"claimable = %s", state.Claimable)
}

func TestReader_ReadClaimState_fractional(t *testing.T) {
	// 1.5 tokens = 15 * 10^17 raw
	raw := new(big.Int).Mul(big.NewInt(15),
		new(big.Int).Exp(big.NewInt(10), big.NewInt(17), nil))
	caller := &fakeCaller{
		outputs: map[string][]byte{
			selector(t, methodClaimed):   packUint(t, methodClaimed, big.NewInt(0)),
			selector(t, methodClaimable): packUint(t, methodClaimable, raw),
		},
	}
	r := New(caller, testContract, time.Second)

	state, err := r.ReadClaimState(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, state.Claimable.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, state.Claimed.IsZero())
}

func TestReader_ReadClaimState_revertIsPermanent(t *testing.T) {
	caller := &fakeCaller{
		errs: map[string]error{
			selector(t, methodClaimed): errors.New("execution reverted: bad token"),
		},
	}
	r := New(caller, testContract, time.Second)

	_, err := r.ReadClaimState(context.Background(), 7)
	require.Error(t, err)

	var readErr *serviceerrs.ChainReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, serviceerrs.ChainReadPermanent, readErr.Kind)
	assert.Equal(t, methodClaimed, readErr.Call)
	assert.Equal(t, uint64(7), readErr.TokenID)
}

func TestReader_ReadClaimState_networkErrorIsTransient(t *testing.T) {
	caller := &fakeCaller{
		errs: map[string]error{
			selector(t, methodClaimable): context.DeadlineExceeded,
		},
		outputs: map[string][]byte{
			selector(t, methodClaimed): packUint(t, methodClaimed, scaled(1)),
		},
	}
	r := New(caller, testContract, time.Second)

	// claimed succeeds, claimable fails: the failure must surface, not
	// turn into a zero amount.
	_, err := r.ReadClaimState(context.Background(), 9)
	require.Error(t, err)

	var readErr *serviceerrs.ChainReadError
	require.ErrorAs(t, err, &readErr)
	assert.True(t, readErr.Transient())
	assert.Equal(t, methodClaimable, readErr.Call)
}

func TestReader_ReadClaimState_undecodableIsPermanent(t *testing.T) {
	caller := &fakeCaller{
		outputs: map[string][]byte{
			selector(t, methodClaimed):   {0xde, 0xad, 0xbe, 0xef},
			selector(t, methodClaimable): packUint(t, methodClaimable, scaled(5)),
		},
	}
	r := New(caller, testContract, time.Second)

	_, err := r.ReadClaimState(context.Background(), 3)
	require.Error(t, err)

	var readErr *serviceerrs.ChainReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, serviceerrs.ChainReadPermanent, readErr.Kind)
}

func TestReader_ReadClaimState_emptyReturnIsPermanent(t *testing.T) {
	caller := &fakeCaller{outputs: map[string][]byte{}}
	r := New(caller, testContract, time.Second)

	_, err := r.ReadClaimState(context.Background(), 3)
	require.Error(t, err)

	var readErr *serviceerrs.ChainReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, serviceerrs.ChainReadPermanent, readErr.Kind)
}
