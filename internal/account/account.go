// Package account validates hex private keys and derives the signing account.
package account

import (
	"crypto/ecdsa"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidKey is returned for keys that are not 32 bytes of hex.
var ErrInvalidKey = errors.New("invalid private key format")

// Account is the loaded signer. It is not modified after Load.
type Account struct {
	Address common.Address
	Key     *ecdsa.PrivateKey
}

// ValidatePrivateKey normalizes a key to its 0x-prefixed form.
// Malformed keys yield ("", false).
func ValidatePrivateKey(s string) (string, bool) {
	k := strings.TrimSpace(s)
	if !strings.HasPrefix(k, "0x") && !strings.HasPrefix(k, "0X") {
		k = "0x" + k
	}
	if len(k) != 66 {
		return "", false
	}
	k = "0x" + strings.ToLower(k[2:])
	if _, err := gethcrypto.HexToECDSA(k[2:]); err != nil {
		return "", false
	}
	return k, true
}

// Load validates the key and derives its address.
func Load(s string) (*Account, error) {
	k, ok := ValidatePrivateKey(s)
	if !ok {
		return nil, ErrInvalidKey
	}
	prv, err := gethcrypto.HexToECDSA(k[2:])
	if err != nil {
		return nil, ErrInvalidKey
	}
	return &Account{Address: gethcrypto.PubkeyToAddress(prv.PublicKey), Key: prv}, nil
}

// Short renders an address as 0x1234...abcd.
func Short(a common.Address) string {
	h := a.Hex()
	return h[:6] + "..." + h[len(h)-4:]
}

// Mask hides the middle of a secret for printing.
func Mask(h string) string {
	h = strings.TrimSpace(h)
	if len(h) <= 10 {
		return "***"
	}
	return h[:6] + "…" + h[len(h)-4:]
}
