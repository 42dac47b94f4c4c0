package swapcore

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// fakeChain is an in-memory Chain. Approvals that get "mined" update the
// stored allowance so later passes see it. Calls to addresses in noCode revert
// the way the router does for ERC-20 selectors.
type fakeChain struct {
	mu sync.Mutex

	chainID      *big.Int
	nonce        uint64
	nonceErr     error
	gasPrice     *big.Int
	gasPriceErrs int
	noCode       map[common.Address]bool
	allowances   map[common.Address]*big.Int
	allowanceErr error
	balances     map[common.Address]*big.Int
	native       *big.Int

	sendErr       func(tx *types.Transaction) error
	receiptErr    error
	receiptStatus uint64

	sent      []*types.Transaction
	attempted []*types.Transaction
	calls     int
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		chainID:       big.NewInt(233),
		nonce:         7,
		gasPrice:      big.NewInt(3_000_000_000),
		allowances:    map[common.Address]*big.Int{},
		balances:      map[common.Address]*big.Int{},
		native:        big.NewInt(0),
		noCode:        map[common.Address]bool{},
		receiptStatus: types.ReceiptStatusSuccessful,
	}
}

func (f *fakeChain) ChainID(context.Context) (*big.Int, error) { return f.chainID, nil }

func (f *fakeChain) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, f.nonceErr
}

func (f *fakeChain) SuggestGasPrice(context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gasPriceErrs > 0 {
		f.gasPriceErrs--
		return nil, errors.New("503 Service Unavailable")
	}
	return f.gasPrice, nil
}

func (f *fakeChain) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return f.native, nil
}

func (f *fakeChain) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeChain) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.noCode[*msg.To] {
		return nil, errors.New("execution reverted")
	}
	sel := msg.Data[:4]
	switch {
	case bytes.Equal(sel, erc20ABI.Methods["allowance"].ID):
		if f.allowanceErr != nil {
			return nil, f.allowanceErr
		}
		v := f.allowances[*msg.To]
		if v == nil {
			v = big.NewInt(0)
		}
		return erc20ABI.Methods["allowance"].Outputs.Pack(v)
	case bytes.Equal(sel, erc20ABI.Methods["balanceOf"].ID):
		v, ok := f.balances[*msg.To]
		if !ok {
			return nil, errors.New("execution reverted")
		}
		return erc20ABI.Methods["balanceOf"].Outputs.Pack(v)
	case bytes.Equal(sel, erc20ABI.Methods["decimals"].ID):
		return erc20ABI.Methods["decimals"].Outputs.Pack(uint8(6))
	}
	return nil, errors.New("unexpected call")
}

func (f *fakeChain) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempted = append(f.attempted, tx)
	if f.sendErr != nil {
		if err := f.sendErr(tx); err != nil {
			return err
		}
	}
	f.sent = append(f.sent, tx)
	if bytes.Equal(tx.Data()[:4], erc20ABI.Methods["approve"].ID) && f.receiptErr == nil && f.receiptStatus == types.ReceiptStatusSuccessful {
		args, err := erc20ABI.Methods["approve"].Inputs.Unpack(tx.Data()[4:])
		if err == nil {
			f.allowances[*tx.To()] = args[1].(*big.Int)
		}
	}
	return nil
}

func (f *fakeChain) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.receiptErr != nil {
		return nil, f.receiptErr
	}
	for _, tx := range f.sent {
		if tx.Hash() == hash {
			return &types.Receipt{Status: f.receiptStatus, TxHash: hash}, nil
		}
	}
	return nil, ethereum.NotFound
}

func (f *fakeChain) sentWithSelector(sel []byte) []*types.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Transaction
	for _, tx := range f.sent {
		if bytes.Equal(tx.Data()[:4], sel) {
			out = append(out, tx)
		}
	}
	return out
}

func (f *fakeChain) attemptedNonces() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]uint64, 0, len(f.attempted))
	for _, tx := range f.attempted {
		out = append(out, tx.Nonce())
	}
	return out
}
