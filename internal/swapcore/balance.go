package swapcore

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ligun0805/swapfarm/internal/config"
)

// Balances reads the native balance and every ERC-20 token of the network
// (the router pseudo-token is skipped).
func Balances(ctx context.Context, ec Chain, n config.Network, owner common.Address, retries int) ([]TokenBalance, error) {
	native, err := ec.BalanceAt(ctx, owner, nil)
	if err != nil {
		return nil, fmt.Errorf("native balance: %w", err)
	}
	out := []TokenBalance{{Symbol: "native", Amount: FormatUnits(native, 18), Raw: native}}
	for _, sym := range sortedKeys(n.Tokens) {
		if n.IsNative(sym) {
			continue
		}
		addr, _ := n.Token(sym)
		tb := TokenBalance{Symbol: sym}
		bal, err := BalanceOf(ctx, ec, addr, owner, retries)
		if err != nil {
			tb.Err = err
			out = append(out, tb)
			continue
		}
		dec, err := Decimals(ctx, ec, addr, retries)
		if err != nil {
			dec = 18
		}
		tb.Raw = bal
		tb.Amount = FormatUnits(bal, dec)
		out = append(out, tb)
	}
	return out, nil
}

type TokenBalance struct {
	Symbol string
	Amount string
	Raw    *big.Int
	Err    error
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
