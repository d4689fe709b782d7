package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs_RedactsSensitiveKeys(t *testing.T) {
	out := sanitizeKVs([]interface{}{"participant_id", "P001", "name", "Budi", "Token", "abc"})

	assert.Equal(t, []interface{}{"participant_id", "P001", "name", "[REDACTED]", "Token", "[REDACTED]"}, out)
}

func TestSanitizeKVs_OddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"concept", "permutation", "dangling"})

	assert.Equal(t, []interface{}{"concept", "permutation", "dangling"}, out)
}
