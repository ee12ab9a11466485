package noves

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortenAddress(t *testing.T) {
	assert.Equal(t, "0x1234...cdef", ShortenAddress("0x1234567890abcdef1234567890abcdef1234cdef"))
	assert.Equal(t, "0x12345678", ShortenAddress("0x12345678"))
	assert.Equal(t, "", ShortenAddress(""))
}

func TestFormatType(t *testing.T) {
	cases := map[string]string{
		"sendToken":     "Send Token",
		"addLiquidity":  "Add Liquidity",
		"swap":          "Swap",
		"SendNFT":       "Send N F T",
		"":              "",
		"claimRewards ": "Claim Rewards",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatType(in), "input %q", in)
	}
}
