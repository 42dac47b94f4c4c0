package swapcore

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
)

var (
	ErrAllowanceTimeout = errors.New("approval not mined before timeout")
	ErrApprovalReverted = errors.New("approval reverted")
)

// AllowanceManager makes sure the router may spend the input token.
type AllowanceManager struct {
	chain    Chain
	chainID  *big.Int
	owner    common.Address
	key      *ecdsa.PrivateKey
	spender  common.Address
	nonces   *NonceTracker
	gas      GasPolicy
	gasLimit uint64
	timeout  time.Duration
	retries  int
	log      zerolog.Logger
}

func NewAllowanceManager(ec Chain, chainID *big.Int, owner common.Address, key *ecdsa.PrivateKey, spender common.Address,
	nonces *NonceTracker, gas GasPolicy, gasLimit uint64, timeout time.Duration, retries int, log zerolog.Logger) *AllowanceManager {
	return &AllowanceManager{
		chain: ec, chainID: chainID, owner: owner, key: key, spender: spender,
		nonces: nonces, gas: gas, gasLimit: gasLimit, timeout: timeout, retries: retries,
		log: log,
	}
}

// Check reports whether the current allowance covers required.
func (m *AllowanceManager) Check(ctx context.Context, token common.Address, required *big.Int) (bool, *big.Int, error) {
	cur, err := Allowance(ctx, m.chain, token, m.owner, m.spender, m.retries)
	if err != nil {
		return false, nil, fmt.Errorf("check allowance: %w", err)
	}
	return cur.Cmp(required) >= 0, cur, nil
}

// Approve sends approve(spender, amount) and waits for a successful receipt.
// The nonce is taken only once the transaction is ready to sign, and it stays
// consumed even if the send fails.
func (m *AllowanceManager) Approve(ctx context.Context, token common.Address, amount *big.Int) (common.Hash, error) {
	data, err := EncodeApprove(m.spender, amount)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack approve: %w", err)
	}
	price, err := m.gas.Price(ctx, m.chain)
	if err != nil {
		return common.Hash{}, err
	}
	nonce, err := m.nonces.Next()
	if err != nil {
		return common.Hash{}, err
	}
	tx, err := signTx(buildLegacyTx(nonce, token, nil, m.gasLimit, price, data), m.chainID, m.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign approve: %w", err)
	}
	if err := m.chain.SendTransaction(ctx, tx); err != nil {
		return tx.Hash(), fmt.Errorf("send approve: %w", err)
	}
	m.log.Info().Str("token", token.Hex()).Str("tx", tx.Hash().Hex()).Uint64("nonce", nonce).Msg("approve sent, waiting for receipt")

	waitCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	receipt, err := bind.WaitMined(waitCtx, m.chain, tx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return tx.Hash(), fmt.Errorf("%w (%s)", ErrAllowanceTimeout, m.timeout)
		}
		return tx.Hash(), fmt.Errorf("wait approve: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return tx.Hash(), fmt.Errorf("%w: tx %s", ErrApprovalReverted, tx.Hash().Hex())
	}
	return tx.Hash(), nil
}

// Ensure checks and, when short, approves exactly required. approving, if
// non-nil, runs right before the approval is built. It reports whether an
// approval was attempted.
func (m *AllowanceManager) Ensure(ctx context.Context, token common.Address, required *big.Int, approving func()) (bool, error) {
	ok, cur, err := m.Check(ctx, token, required)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	m.log.Debug().Str("token", token.Hex()).Str("allowance", cur.String()).Str("required", required.String()).Msg("allowance too low")
	if approving != nil {
		approving()
	}
	hash, err := m.Approve(ctx, token, required)
	if err != nil {
		return true, err
	}
	m.log.Info().Str("token", token.Hex()).Str("tx", ShortHash(hash.Hex())).Msg("approval mined")
	return true, nil
}
