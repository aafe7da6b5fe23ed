package sink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	require.NoError(t, NewLog(zap.New(core)).Persist(context.Background(), testRecord("rec-1")))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "feedback record", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "rec-1", fields["recordId"])
	assert.Equal(t, "Openlink", fields["originalIdealProduct"])
}

func TestLogSink_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, NewLog(zap.NewNop()).Persist(ctx, testRecord("rec-1")))
}
