package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/meetingscribe/workprogress/internal/config"
)

func TestNew_ValidConfig(t *testing.T) {
	logger, err := New(config.LoggingConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	require.NotNil(t, logger)
	defer logger.Sync()

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "loudest", Format: "json"})
	require.Error(t, err)
}

func TestRedactedString(t *testing.T) {
	f := RedactedString("detail", "request failed: Authorization: Bearer eyJhbGciOi.secret")
	assert.Equal(t, "request failed: Authorization: Bearer [REDACTED]", f.String)

	f = RedactedString("detail", "no credentials here")
	assert.Equal(t, "no credentials here", f.String)
}
