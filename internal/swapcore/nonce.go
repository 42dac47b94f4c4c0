package swapcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var errNonceNotInitialized = errors.New("nonce tracker not initialized")

// NonceTracker hands out nonces locally after one RPC read. Every attempted
// send consumes one nonce whether or not the node accepted it.
type NonceTracker struct {
	addr  common.Address
	next  uint64
	ready bool
}

func NewNonceTracker(addr common.Address) *NonceTracker {
	return &NonceTracker{addr: addr}
}

// Init loads the account's pending transaction count.
func (n *NonceTracker) Init(ctx context.Context, ec Chain) error {
	v, err := ec.PendingNonceAt(ctx, n.addr)
	if err != nil {
		return fmt.Errorf("fetch nonce: %w", err)
	}
	n.next = v
	n.ready = true
	return nil
}

// Next returns the nonce for the next send and advances the counter.
func (n *NonceTracker) Next() (uint64, error) {
	if !n.ready {
		return 0, errNonceNotInitialized
	}
	v := n.next
	n.next++
	return v, nil
}

// Peek returns the nonce the next send will use.
func (n *NonceTracker) Peek() uint64 { return n.next }
