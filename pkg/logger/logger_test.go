package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFields_RedactsSensitiveKeys(t *testing.T) {
	fields := map[string]interface{}{
		"username":     "alice",
		"password":     "hunter2",
		"session_id":   "abc123",
		"card_number":  "4111111111111111",
		"cvv":          "123",
		"expiry_date":  "12/27",
		"access_token": "jwt-value",
	}

	sanitized := sanitizeFields(fields)

	assert.Equal(t, "alice", sanitized["username"])
	assert.Equal(t, "[REDACTED]", sanitized["password"])
	assert.Equal(t, "[REDACTED]", sanitized["session_id"])
	assert.Equal(t, "[REDACTED]", sanitized["card_number"])
	assert.Equal(t, "[REDACTED]", sanitized["cvv"])
	assert.Equal(t, "[REDACTED]", sanitized["expiry_date"])
	assert.Equal(t, "[REDACTED]", sanitized["access_token"])
}

func TestSanitizeFields_MasksCardLikeValues(t *testing.T) {
	fields := map[string]interface{}{
		"note":      "4111 1111 1111 1111",
		"file_name": "photo 2026.jpg",
	}

	sanitized := sanitizeFields(fields)

	assert.Equal(t, "[CARD_NUMBER]", sanitized["note"])
	assert.Equal(t, "photo 2026.jpg", sanitized["file_name"])
}

func TestSanitizeFields_RedactsURLQueryParams(t *testing.T) {
	fields := map[string]interface{}{
		"url": "https://storage.example.com/api/get-user-files?auth=secret",
	}

	sanitized := sanitizeFields(fields)
	assert.Equal(t, "https://storage.example.com/api/get-user-files?[QUERY_PARAMS_REDACTED]", sanitized["url"])
}

func TestSanitizeFields_NilStaysNil(t *testing.T) {
	assert.Nil(t, sanitizeFields(nil))
}

func TestLooksLikeCardNumber(t *testing.T) {
	assert.True(t, looksLikeCardNumber("4111111111111111"))
	assert.True(t, looksLikeCardNumber("4111 1111 1111 1111"))
	assert.False(t, looksLikeCardNumber("411111111111111"))   // 15 digits
	assert.False(t, looksLikeCardNumber("41111111111111112")) // 17 digits
	assert.False(t, looksLikeCardNumber("4111-1111-1111-1111"))
	assert.False(t, looksLikeCardNumber("report 2026.pdf"))
}

func TestShouldLog_RespectsMinLevel(t *testing.T) {
	l := New()
	assert.False(t, l.shouldLog(LevelDebug))
	assert.True(t, l.shouldLog(LevelInfo))

	l.SetLevel(LevelError)
	assert.False(t, l.shouldLog(LevelWarn))
	assert.True(t, l.shouldLog(LevelError))

	l.SetLevel(LevelDebug)
	assert.True(t, l.shouldLog(LevelDebug))
}
