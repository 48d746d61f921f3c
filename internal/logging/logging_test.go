package logging

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLoggerRecordsEntries(t *testing.T) {
	m := NewMockLogger()

	m.Info("hello", F("key", "value"))
	m.Warn("careful")

	entries := m.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "INFO", entries[0].Level)
	assert.Equal(t, "hello", entries[0].Message)
	require.Len(t, entries[0].Fields, 1)
	assert.Equal(t, "key", entries[0].Fields[0].Key)

	assert.True(t, m.HasEntry("WARN", "careful"))
	assert.False(t, m.HasEntry("ERROR", "careful"))
}

func TestMockLoggerDerivedLoggersShareEntries(t *testing.T) {
	m := NewMockLogger()

	derived := m.WithField("component", "parser").WithError(errors.New("boom"))
	derived.Error("failed")

	entries := m.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0].Level)
	assert.EqualError(t, entries[0].Error, "boom")
	require.Len(t, entries[0].Fields, 1)
	assert.Equal(t, "component", entries[0].Fields[0].Key)
}

func TestMockLoggerWithFieldsAccumulate(t *testing.T) {
	m := NewMockLogger()

	m.WithField("a", 1).WithFields(F("b", 2), F("c", 3)).Info("msg")

	entries := m.Entries()
	require.Len(t, entries, 1)
	assert.Len(t, entries[0].Fields, 3)
}

func TestNewLogrusAdapterLevels(t *testing.T) {
	logger := NewLogrusAdapter("debug", "json")
	require.NotNil(t, logger)

	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	assert.Equal(t, logrus.DebugLevel, adapter.logger.GetLevel())

	// An unparsable level falls back to info.
	logger = NewLogrusAdapter("nonsense", "text")
	adapter = logger.(*LogrusAdapter)
	assert.Equal(t, logrus.InfoLevel, adapter.logger.GetLevel())
}

func TestLogrusAdapterDerivation(t *testing.T) {
	base := NewLogrusAdapterFromLogger(logrus.New())

	derived := base.WithField("a", 1).WithFields(F("b", 2)).WithError(errors.New("x"))
	require.NotNil(t, derived)

	// Derivation must not mutate the base adapter.
	assert.NotSame(t, base, derived)
}
