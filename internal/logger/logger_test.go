package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeRedactsSensitiveKeys(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.Info("login", "identity", "alice", "access_token", "abc.def.ghi", "DB_PASSWORD", "hunter2")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "alice", fields["identity"])
		assert.Equal(t, "[REDACTED]", fields["access_token"])
		assert.Equal(t, "[REDACTED]", fields["DB_PASSWORD"])
	}
}

func TestSanitizeKeepsDanglingValue(t *testing.T) {
	out := sanitizeKVs([]interface{}{"a", 1, "orphan"})
	assert.Equal(t, []interface{}{"a", 1, "orphan"}, out)
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "prod"} {
		l, err := New(mode)
		assert.NoError(t, err)
		assert.NotNil(t, l.SugaredLogger)
	}
	Nop().Info("discarded", "k", "v")
}
