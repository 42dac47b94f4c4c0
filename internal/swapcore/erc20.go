package swapcore

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// --- small RPC helpers (retry + backoff) ---
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "Too Many Requests") || strings.Contains(s, "-32005")
}

// callWithRetry performs eth_call with small exponential backoff.
// Only read-only calls go through here; transactions are never retried.
func callWithRetry(ctx context.Context, ec Chain, msg ethereum.CallMsg, attempts int) ([]byte, error) {
	if attempts < 1 {
		attempts = 1
	}
	backoff := 200 * time.Millisecond
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		ret, err := ec.CallContract(ctx, msg, nil)
		if err == nil {
			return ret, nil
		}
		lastErr = err
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			if isRateLimitError(err) {
				backoff *= 2
			}
		}
	}
	return nil, lastErr
}

// EncodeApprove builds approve(spender, amount) calldata.
func EncodeApprove(spender common.Address, amount *big.Int) ([]byte, error) {
	return erc20ABI.Pack("approve", spender, amount)
}

func readUint(ctx context.Context, ec Chain, token common.Address, attempts int, method string, args ...any) (*big.Int, error) {
	data, err := erc20ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	ret, err := callWithRetry(ctx, ec, ethereum.CallMsg{To: &token, Data: data}, attempts)
	if err != nil {
		return nil, fmt.Errorf("%s(): %w", method, err)
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("%s(): empty return (not a token?)", method)
	}
	out, err := erc20ABI.Unpack(method, ret)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	switch v := out[0].(type) {
	case *big.Int:
		return v, nil
	case uint8:
		return big.NewInt(int64(v)), nil
	}
	return nil, errors.New(method + "(): unexpected return type")
}

// Allowance reads allowance(owner, spender) on token.
func Allowance(ctx context.Context, ec Chain, token, owner, spender common.Address, attempts int) (*big.Int, error) {
	return readUint(ctx, ec, token, attempts, "allowance", owner, spender)
}

// BalanceOf reads balanceOf(owner) on token.
func BalanceOf(ctx context.Context, ec Chain, token, owner common.Address, attempts int) (*big.Int, error) {
	return readUint(ctx, ec, token, attempts, "balanceOf", owner)
}

// Decimals reads decimals() on token.
func Decimals(ctx context.Context, ec Chain, token common.Address, attempts int) (int32, error) {
	d, err := readUint(ctx, ec, token, attempts, "decimals")
	if err != nil {
		return 0, err
	}
	return int32(d.Int64()), nil
}
