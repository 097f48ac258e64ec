package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, `tx 0xabc\.\.\.def \(0\.01\)`, EscapeMarkdownV2("tx 0xabc...def (0.01)"))
	assert.Equal(t, `plain text`, EscapeMarkdownV2("plain text"))
	assert.Equal(t, `\_\*\[\]`, EscapeMarkdownV2("_*[]"))
}
