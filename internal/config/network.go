package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// SwapSpec is one fixed swap pair of a network.
type SwapSpec struct {
	Name     string `yaml:"name"`
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Amount   string `yaml:"amount"`
	Decimals int32  `yaml:"decimals"`
	GasLimit uint64 `yaml:"gas_limit"`
}

// Network is the static description of one chain and its router.
type Network struct {
	Name     string            `yaml:"name"`
	RPCURL   string            `yaml:"rpc_url"`
	ChainID  int64             `yaml:"chain_id"`
	Router   string            `yaml:"router"`
	Explorer string            `yaml:"explorer"`
	TasksAPI string            `yaml:"tasks_api"`
	Tokens   map[string]string `yaml:"tokens"`
	Swaps    []SwapSpec        `yaml:"swaps"`
}

type networksFile struct {
	Networks []Network `yaml:"networks"`
}

const (
	initVerseRouter = "0x7BEf93022D48b9df745B77D0Fd348fB415b026e2"
	initVerseUSDT   = "0x36AA81a7aEeAB8f09e154d3E779Bb81beA54501A"
	initVerseToken  = "0xcF259Bca0315C6D32e877793B6a10e97e7647FdE"
)

// DefaultNetworks returns the built-in network table.
func DefaultNetworks() []Network {
	return []Network{{
		Name:     "InitVerse",
		RPCURL:   "https://rpc-testnet.iniscan.com",
		ChainID:  233,
		Router:   initVerseRouter,
		Explorer: "https://testnet.iniscan.com/tx/",
		Tokens: map[string]string{
			// the router address doubles as the native INI leg of the path
			"INI":   initVerseRouter,
			"USDT":  initVerseUSDT,
			"TOKEN": initVerseToken,
		},
		Swaps: []SwapSpec{
			{Name: "INI to TOKEN", Input: "INI", Output: "TOKEN", Amount: "0.002", Decimals: 18, GasLimit: 140600},
			{Name: "INI to USDT", Input: "INI", Output: "USDT", Amount: "0.002", Decimals: 18, GasLimit: 128542},
			{Name: "USDT to INI", Input: "USDT", Output: "INI", Amount: "0.001", Decimals: 18, GasLimit: 145873},
			{Name: "TOKEN to INI", Input: "TOKEN", Output: "INI", Amount: "0.001", Decimals: 18, GasLimit: 209126},
		},
	}}
}

// LoadNetworks reads a YAML network table. An empty path yields DefaultNetworks.
func LoadNetworks(path string) ([]Network, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultNetworks(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open networks: %w", err)
	}
	defer file.Close()

	var nf networksFile
	if err := yaml.NewDecoder(file).Decode(&nf); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(nf.Networks) == 0 {
		return nil, errors.New("networks file has no networks")
	}
	for i := range nf.Networks {
		for j := range nf.Networks[i].Swaps {
			if nf.Networks[i].Swaps[j].Decimals == 0 {
				nf.Networks[i].Swaps[j].Decimals = 18
			}
		}
		if err := nf.Networks[i].Validate(); err != nil {
			return nil, err
		}
	}
	return nf.Networks, nil
}

// Validate checks addresses, token references and amounts.
func (n Network) Validate() error {
	if n.Name == "" {
		return errors.New("network: empty name")
	}
	if n.RPCURL == "" {
		return fmt.Errorf("network %s: empty rpc_url", n.Name)
	}
	if n.ChainID <= 0 {
		return fmt.Errorf("network %s: bad chain_id %d", n.Name, n.ChainID)
	}
	if !common.IsHexAddress(n.Router) {
		return fmt.Errorf("network %s: bad router address %q", n.Name, n.Router)
	}
	for sym, addr := range n.Tokens {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("network %s: bad token %s address %q", n.Name, sym, addr)
		}
	}
	if len(n.Swaps) == 0 {
		return fmt.Errorf("network %s: no swaps", n.Name)
	}
	seen := map[string]bool{}
	for _, s := range n.Swaps {
		if s.Name == "" {
			return fmt.Errorf("network %s: swap with empty name", n.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("network %s: duplicate swap %q", n.Name, s.Name)
		}
		seen[s.Name] = true
		if _, ok := n.Tokens[s.Input]; !ok {
			return fmt.Errorf("network %s: swap %q: unknown input token %s", n.Name, s.Name, s.Input)
		}
		if _, ok := n.Tokens[s.Output]; !ok {
			return fmt.Errorf("network %s: swap %q: unknown output token %s", n.Name, s.Name, s.Output)
		}
		amt, err := decimal.NewFromString(s.Amount)
		if err != nil || !amt.IsPositive() {
			return fmt.Errorf("network %s: swap %q: bad amount %q", n.Name, s.Name, s.Amount)
		}
		if s.GasLimit == 0 {
			return fmt.Errorf("network %s: swap %q: zero gas_limit", n.Name, s.Name)
		}
	}
	return nil
}

// Token resolves a token symbol to its address.
func (n Network) Token(symbol string) (common.Address, bool) {
	a, ok := n.Tokens[symbol]
	if !ok {
		return common.Address{}, false
	}
	return common.HexToAddress(a), true
}

// IsNative reports whether symbol stands for the chain's native coin. Native
// legs are written as the router address and are not ERC-20 contracts.
func (n Network) IsNative(symbol string) bool {
	a, ok := n.Token(symbol)
	return ok && a == n.RouterAddress()
}

// RouterAddress returns the router as an address.
func (n Network) RouterAddress() common.Address {
	return common.HexToAddress(n.Router)
}

// SwapNames lists swap names in table order.
func (n Network) SwapNames() []string {
	out := make([]string, 0, len(n.Swaps))
	for _, s := range n.Swaps {
		out = append(out, s.Name)
	}
	return out
}
