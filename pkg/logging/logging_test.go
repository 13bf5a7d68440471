package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetup(t *testing.T) {
	logger, err := Setup(false, "phihelper", "test")
	require.NoError(t, err)
	assert.Same(t, Logger, logger)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = Setup(true, "phihelper", "test")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
