package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyChainError(t *testing.T) {
	cases := []struct {
		raw  string
		want error
	}{
		{raw: "insufficient funds for gas * price + value", want: ErrInsufficientFunds},
		{raw: "execution reverted: NotRegistered", want: ErrTxReverted},
		{raw: "VM Exception: revert", want: ErrTxReverted},
		{raw: "dial tcp: connection refused", want: ErrChainUnreachable},
		{raw: "context deadline exceeded: timeout", want: ErrChainUnreachable},
		{raw: "lookup rpc.example: no such host", want: ErrChainUnreachable},
	}
	for _, tc := range cases {
		got := classifyChainError(errors.New(tc.raw))
		assert.ErrorIs(t, got, tc.want, "raw %q", tc.raw)
	}
}

func TestClassifyChainErrorPassthrough(t *testing.T) {
	raw := errors.New("nonce too low")
	got := classifyChainError(raw)
	assert.Equal(t, raw, got)
}
