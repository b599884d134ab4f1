package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsCredentials(t *testing.T) {
	out := sanitizeKVs([]interface{}{"user_id", 7, "access_token", "abc", "Password", "hunter22", "dangling"})

	assert.Equal(t, []interface{}{"user_id", 7, "access_token", "[REDACTED]", "Password", "[REDACTED]", "dangling"}, out)
}

func TestNopDoesNotPanic(t *testing.T) {
	l := Nop().With("component", "test")
	l.Info("hello", "k", "v")
	l.Sync()
}
