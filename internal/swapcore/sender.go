package swapcore

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
)

// SwapRequest is one resolved swapExactTokensForTokens call.
type SwapRequest struct {
	Name     string
	TokenIn  common.Address
	TokenOut common.Address
	AmountIn *big.Int
	GasLimit uint64
}

// Sender builds, signs and broadcasts router swaps.
type Sender struct {
	chain    Chain
	chainID  *big.Int
	from     common.Address
	key      *ecdsa.PrivateKey
	router   common.Address
	nonces   *NonceTracker
	gas      GasPolicy
	deadline time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewSender(ec Chain, chainID *big.Int, from common.Address, key *ecdsa.PrivateKey, router common.Address,
	nonces *NonceTracker, gas GasPolicy, deadline time.Duration, now func() time.Time, log zerolog.Logger) *Sender {
	if now == nil {
		now = time.Now
	}
	return &Sender{chain: ec, chainID: chainID, from: from, key: key, router: router, nonces: nonces,
		gas: gas, deadline: deadline, now: now, log: log}
}

// EncodeSwap packs the router call. amountOutMin is always zero: the tool
// does not protect against slippage.
func (s *Sender) EncodeSwap(req SwapRequest) ([]byte, error) {
	deadline := big.NewInt(s.now().Add(s.deadline).Unix())
	path := []common.Address{req.TokenIn, req.TokenOut}
	return routerABI.Pack("swapExactTokensForTokens", req.AmountIn, big.NewInt(0), path, s.from, deadline)
}

// Send returns the tx hash hex, or "" and the error (which is also logged).
// A nonce is consumed only when a signed transaction is handed to the node;
// encoding or gas price failures leave the counter untouched.
func (s *Sender) Send(ctx context.Context, req SwapRequest) (string, error) {
	hash, err := s.send(ctx, req)
	if err != nil {
		s.log.Error().Err(err).Str("swap", req.Name).Uint64("next_nonce", s.nonces.Peek()).Msg("swap send failed")
		return "", err
	}
	return hash, nil
}

func (s *Sender) send(ctx context.Context, req SwapRequest) (string, error) {
	if req.AmountIn == nil || req.AmountIn.Sign() <= 0 {
		return "", fmt.Errorf("amountIn must be > 0")
	}
	data, err := s.EncodeSwap(req)
	if err != nil {
		return "", fmt.Errorf("pack swap: %w", err)
	}
	price, err := s.gas.Price(ctx, s.chain)
	if err != nil {
		return "", err
	}
	nonce, err := s.nonces.Next()
	if err != nil {
		return "", err
	}
	tx, err := signTx(buildLegacyTx(nonce, s.router, nil, s.gas.Limit(req.GasLimit), price, data), s.chainID, s.key)
	if err != nil {
		return "", fmt.Errorf("sign swap: %w", err)
	}
	if err := s.chain.SendTransaction(ctx, tx); err != nil {
		return "", fmt.Errorf("send swap: %w", err)
	}
	s.log.Debug().Str("swap", req.Name).Str("tx", tx.Hash().Hex()).Str("gasPriceGwei", fmtGwei(price)).Uint64("nonce", nonce).Msg("swap broadcast")
	return tx.Hash().Hex(), nil
}
