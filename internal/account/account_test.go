package account

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPrivHex = "289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032"
	testAddrHex = "0x970E8128AB834E8EAC17Ab8E3812F010678CF791"
)

func TestLoadDerivesAddress(t *testing.T) {
	for _, in := range []string{testPrivHex, "0x" + testPrivHex, "  0x" + strings.ToUpper(testPrivHex) + "\n"} {
		acc, err := Load(in)
		require.NoError(t, err, in)
		assert.Equal(t, common.HexToAddress(testAddrHex), acc.Address)
	}
}

func TestLoadIdempotent(t *testing.T) {
	a1, err := Load(testPrivHex)
	require.NoError(t, err)
	norm, ok := ValidatePrivateKey(testPrivHex)
	require.True(t, ok)
	a2, err := Load(norm)
	require.NoError(t, err)
	assert.Equal(t, a1.Address, a2.Address)

	again, ok := ValidatePrivateKey(norm)
	require.True(t, ok)
	assert.Equal(t, norm, again)
}

func TestValidatePrivateKeyRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":     "",
		"short":     testPrivHex[:62],
		"long":      testPrivHex + "00",
		"non-hex":   "zz" + testPrivHex[2:],
		"zero key":  strings.Repeat("0", 64),
		"bad prefx": "0y" + testPrivHex,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			k, ok := ValidatePrivateKey(in)
			assert.False(t, ok)
			assert.Empty(t, k)

			_, err := Load(in)
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestShortAndMask(t *testing.T) {
	assert.Equal(t, "0x970e...f791", strings.ToLower(Short(common.HexToAddress(testAddrHex))))
	assert.Equal(t, "***", Mask("0x1234"))
	assert.Equal(t, "0x289c…2032", Mask("0x"+testPrivHex))
}
