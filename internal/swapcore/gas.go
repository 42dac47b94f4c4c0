package swapcore

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"strings"
)

const (
	GasModeFixed   = "fixed"
	GasModeNetwork = "network"
)

// GasPolicy decides gas price and scales gas limits. The fixed mode never
// queries the node.
type GasPolicy struct {
	Mode            string
	FixedPrice      *big.Int
	LimitAdjustment float64
}

// NewGasPolicy builds a policy from gwei and an adjustment factor.
func NewGasPolicy(mode string, feeGwei, limitAdjustment float64) GasPolicy {
	if feeGwei <= 0 {
		feeGwei = 10
	}
	return GasPolicy{
		Mode:            strings.ToLower(strings.TrimSpace(mode)),
		FixedPrice:      gweiToWei(feeGwei),
		LimitAdjustment: limitAdjustment,
	}
}

// Price returns the gas price to sign with.
func (g GasPolicy) Price(ctx context.Context, ec Chain) (*big.Int, error) {
	if g.Mode == GasModeNetwork {
		p, err := ec.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("get gas price: %w", err)
		}
		if p.Sign() > 0 {
			return p, nil
		}
	}
	if g.FixedPrice == nil || g.FixedPrice.Sign() <= 0 {
		return gweiToWei(10), nil
	}
	return new(big.Int).Set(g.FixedPrice), nil
}

// Limit scales a base gas limit by the adjustment factor.
func (g GasPolicy) Limit(base uint64) uint64 {
	if g.LimitAdjustment <= 0 || g.LimitAdjustment == 1 {
		return base
	}
	return uint64(math.Ceil(float64(base) * g.LimitAdjustment))
}
