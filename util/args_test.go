package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseArgs(t *testing.T) {
	key, params := ParseArgs([]string{"b", "source=cron", "volume=20"})
	assert.Equal(t, "b", key)
	assert.Equal(t, map[string]interface{}{"source": "cron", "volume": float64(20)}, params)
}

func TestParseArgsNoBare(t *testing.T) {
	key, params := ParseArgs([]string{"a=1"})
	assert.Equal(t, "", key)
	assert.Len(t, params, 1)
}
