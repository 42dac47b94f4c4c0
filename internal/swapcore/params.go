package swapcore

import (
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/ligun0805/swapfarm/internal/account"
	"github.com/ligun0805/swapfarm/internal/config"
	"github.com/ligun0805/swapfarm/internal/txlog"
)

type Params struct {
	Network config.Network
	Account *account.Account
	ChainID *big.Int // queried from the node when nil

	Gas             GasPolicy
	ApproveGasLimit uint64
	Deadline        time.Duration
	ReceiptTimeout  time.Duration
	CallRetries     int
	AmountOverride  string // replaces every swap amount when set

	Delay  DelayPolicy
	TxLog  *txlog.Store
	Logger zerolog.Logger
	Now    func() time.Time

	OnState  func(State, string)
	OnResult func(Result)
}

func (p *Params) setDefaults() {
	if p.ApproveGasLimit == 0 {
		p.ApproveGasLimit = 100_000
	}
	if p.Deadline <= 0 {
		p.Deadline = 20 * time.Minute
	}
	if p.ReceiptTimeout <= 0 {
		p.ReceiptTimeout = 2 * time.Minute
	}
	if p.CallRetries < 1 {
		p.CallRetries = 1
	}
	if p.Delay == nil {
		p.Delay = NoDelay{}
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.Gas.FixedPrice == nil {
		p.Gas = NewGasPolicy(p.Gas.Mode, 10, p.Gas.LimitAdjustment)
	}
}
