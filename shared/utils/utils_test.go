package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "0xabcdef0123456789abcdef0123456789abcdef01",
		NormalizeAddress("  0xABCDEF0123456789abcdef0123456789ABCDEF01  "))
	assert.Equal(t, "", NormalizeAddress("   "))
}

func TestIsValidAddress(t *testing.T) {
	valid := []string{
		"0xabcdef0123456789abcdef0123456789abcdef01",
		"0xABCDEF0123456789ABCDEF0123456789ABCDEF01",
		"  0xabcdef0123456789abcdef0123456789abcdef01  ",
	}
	for _, address := range valid {
		assert.True(t, IsValidAddress(address), "address %q", address)
	}

	invalid := []string{
		"",
		"0x",
		"abcdef0123456789abcdef0123456789abcdef01",
		"0xabcdef0123456789abcdef0123456789abcdef0",
		"0xabcdef0123456789abcdef0123456789abcdef012",
		"0xzzcdef0123456789abcdef0123456789abcdef01",
	}
	for _, address := range invalid {
		assert.False(t, IsValidAddress(address), "address %q", address)
	}
}
