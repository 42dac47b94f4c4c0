package swapcore

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testToken  = common.HexToAddress("0x36AA81a7aEeAB8f09e154d3E779Bb81beA54501A")
	testRouter = common.HexToAddress("0x7BEf93022D48b9df745B77D0Fd348fB415b026e2")
)

func newTestAllowance(t *testing.T, fc *fakeChain, timeout time.Duration) (*AllowanceManager, *NonceTracker) {
	t.Helper()
	acc := testAccount(t)
	nonces := NewNonceTracker(acc.Address)
	require.NoError(t, nonces.Init(context.Background(), fc))
	m := NewAllowanceManager(fc, fc.chainID, acc.Address, acc.Key, testRouter, nonces,
		NewGasPolicy(GasModeFixed, 10, 1), 100_000, timeout, 1, zerolog.Nop())
	return m, nonces
}

func TestEnsureSkipsWhenAllowanceCovers(t *testing.T) {
	fc := newFakeChain()
	fc.allowances[testToken] = big.NewInt(1000)
	m, nonces := newTestAllowance(t, fc, time.Second)

	hooked := false
	sent, err := m.Ensure(context.Background(), testToken, big.NewInt(1000), func() { hooked = true })
	require.NoError(t, err)
	assert.False(t, sent)
	assert.False(t, hooked)
	assert.Empty(t, fc.attempted)
	assert.Equal(t, uint64(7), nonces.Peek())
}

func TestEnsureApprovesExactAmount(t *testing.T) {
	fc := newFakeChain()
	fc.allowances[testToken] = big.NewInt(5)
	m, nonces := newTestAllowance(t, fc, time.Second)

	hooked := false
	sent, err := m.Ensure(context.Background(), testToken, big.NewInt(1000), func() { hooked = true })
	require.NoError(t, err)
	assert.True(t, sent)
	assert.True(t, hooked)
	assert.Equal(t, uint64(8), nonces.Peek())

	require.Len(t, fc.sent, 1)
	tx := fc.sent[0]
	assert.Equal(t, testToken, *tx.To())
	assert.Equal(t, uint64(100_000), tx.Gas())
	assert.Equal(t, "10000000000", tx.GasPrice().String())
	assert.Equal(t, big.NewInt(1000), fc.allowances[testToken])
}

func TestApproveTimeout(t *testing.T) {
	fc := newFakeChain()
	fc.receiptErr = errors.New("not found")
	m, nonces := newTestAllowance(t, fc, 50*time.Millisecond)

	_, err := m.Approve(context.Background(), testToken, big.NewInt(1))
	require.ErrorIs(t, err, ErrAllowanceTimeout)
	assert.Equal(t, uint64(8), nonces.Peek())
}

func TestApproveReverted(t *testing.T) {
	fc := newFakeChain()
	fc.receiptStatus = types.ReceiptStatusFailed
	m, _ := newTestAllowance(t, fc, time.Second)

	hash, err := m.Approve(context.Background(), testToken, big.NewInt(1))
	require.ErrorIs(t, err, ErrApprovalReverted)
	assert.NotEqual(t, common.Hash{}, hash)
}

func TestApproveSendFailureConsumesNonce(t *testing.T) {
	fc := newFakeChain()
	fc.sendErr = func(*types.Transaction) error { return errors.New("nonce too low") }
	m, nonces := newTestAllowance(t, fc, time.Second)

	_, err := m.Approve(context.Background(), testToken, big.NewInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send approve")
	assert.Equal(t, uint64(8), nonces.Peek())
}

func TestApproveGasPriceFailureKeepsNonce(t *testing.T) {
	fc := newFakeChain()
	fc.gasPriceErrs = 1
	acc := testAccount(t)
	nonces := NewNonceTracker(acc.Address)
	require.NoError(t, nonces.Init(context.Background(), fc))
	m := NewAllowanceManager(fc, fc.chainID, acc.Address, acc.Key, testRouter, nonces,
		NewGasPolicy(GasModeNetwork, 10, 1), 100_000, time.Second, 1, zerolog.Nop())

	_, err := m.Approve(context.Background(), testToken, big.NewInt(1))
	require.ErrorContains(t, err, "get gas price")
	assert.Equal(t, uint64(7), nonces.Peek())
	assert.Empty(t, fc.attempted)

	_, err = m.Approve(context.Background(), testToken, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, []uint64{7}, fc.attemptedNonces())
}

func TestCheckWrapsRPCError(t *testing.T) {
	fc := newFakeChain()
	fc.allowanceErr = errors.New("503 Service Unavailable")
	m, _ := newTestAllowance(t, fc, time.Second)

	_, _, err := m.Check(context.Background(), testToken, big.NewInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check allowance")
}

func TestCallWithRetryRetries(t *testing.T) {
	fc := newFakeChain()
	fc.allowanceErr = errors.New("429 Too Many Requests")
	acc := testAccount(t)

	_, err := Allowance(context.Background(), fc, testToken, acc.Address, testRouter, 2)
	require.Error(t, err)
	assert.Equal(t, 2, fc.calls)
}
