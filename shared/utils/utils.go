package utils

import (
	"regexp"
	"strings"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// NormalizeAddress lowercases a wallet address so it can be used as a stable key.
func NormalizeAddress(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// IsValidAddress reports whether input looks like a 0x-prefixed EVM address.
func IsValidAddress(input string) bool {
	return addressPattern.MatchString(strings.TrimSpace(input))
}
