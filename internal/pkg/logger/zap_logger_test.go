package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriteLiftsErrorField(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := newZap(core)

	l.Warn("GraphStore", "Query failed, retrying", map[string]interface{}{
		"operation": "HasEdge",
		"error":     errors.New("connection reset"),
	})
	l.Info("Hub", "Client registered", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	warn := entries[0].ContextMap()
	assert.Equal(t, "GraphStore", warn["module"])
	assert.Equal(t, "connection reset", warn["error"])
	assert.Equal(t, ServiceName, warn["service"])

	info := entries[1].ContextMap()
	assert.Equal(t, "Hub", info["module"])
	assert.NotContains(t, info, "error")
}

func TestWriteRespectsLevel(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := newZap(core)

	l.Debug("Diversifier", "noise", nil)
	l.Error("AutobuildService", "ResolveMany failed", map[string]interface{}{"error": "plain string"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "ResolveMany failed", entry.Message)
	assert.NotContains(t, entry.ContextMap(), "error")
}
