package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("run started", logging.String("name", "Altana"))

	messages := logger.Messages()
	assert.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "run started", messages[0].Message)

	logger.Clear()
	assert.Empty(t, logger.Messages())

	logger.Named("engine").With(logging.Int("port", 8080)).Error("boom")
	assert.True(t, logger.HasMessage("error", "boom"))
	assert.False(t, logger.HasMessage("info", "boom"))
}
