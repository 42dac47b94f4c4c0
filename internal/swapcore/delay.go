package swapcore

import (
	"context"
	"math/rand"
	"strings"
	"time"
)

// DelayPolicy returns the pause between attempted swaps.
type DelayPolicy interface {
	Next() time.Duration
}

type ConstantDelay time.Duration

func (d ConstantDelay) Next() time.Duration { return time.Duration(d) }

type NoDelay struct{}

func (NoDelay) Next() time.Duration { return 0 }

// RandomDelay picks uniformly in [Min, Max].
type RandomDelay struct {
	Min, Max time.Duration
	Rand     *rand.Rand
}

func (d RandomDelay) Next() time.Duration {
	lo, hi := d.Min, d.Max
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi == lo {
		return lo
	}
	span := int64(hi - lo)
	if d.Rand != nil {
		return lo + time.Duration(d.Rand.Int63n(span+1))
	}
	return lo + time.Duration(rand.Int63n(span+1))
}

// NewDelayPolicy maps a mode name to a policy. Unknown modes are constant.
func NewDelayPolicy(mode string, seconds, minSeconds, maxSeconds float64) DelayPolicy {
	secs := func(f float64) time.Duration { return time.Duration(f * float64(time.Second)) }
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "none", "off", "0":
		return NoDelay{}
	case "random":
		return RandomDelay{Min: secs(minSeconds), Max: secs(maxSeconds)}
	default:
		if seconds <= 0 {
			return NoDelay{}
		}
		return ConstantDelay(secs(seconds))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
