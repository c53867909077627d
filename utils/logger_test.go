package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	original := Level()
	out := log.Out
	buf := &bytes.Buffer{}
	SetOutput(buf)
	t.Cleanup(func() {
		SetOutput(out)
		_ = SetLevel(original)
	})
	return buf
}

func TestSetVerbose_And_IsVerbose(t *testing.T) {
	captureLogs(t)

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected IsVerbose() = true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected IsVerbose() = false after SetVerbose(false)")
	}
}

func TestVerbose_SuppressedWhenDisabled(t *testing.T) {
	buf := captureLogs(t)

	SetVerbose(false)
	Verbose("test message %s %d", "arg", 42)
	assert.Empty(t, buf.String())
}

func TestVerbose_WrittenWhenEnabled(t *testing.T) {
	buf := captureLogs(t)

	SetVerbose(true)
	Verbose("test message %s %d", "arg", 42)
	assert.Contains(t, buf.String(), "test message arg 42")
}

func TestInfo_Written(t *testing.T) {
	buf := captureLogs(t)

	Info("test info %s", "message")
	assert.Contains(t, buf.String(), "test info message")
	assert.Contains(t, buf.String(), "level=info")
}

func TestSetLevel(t *testing.T) {
	buf := captureLogs(t)

	require.NoError(t, SetLevel("trace"))
	assert.Equal(t, "trace", Level())

	Trace("relative position = (%d, %d)", 3, 4)
	assert.Contains(t, buf.String(), "relative position = (3, 4)")

	require.NoError(t, SetLevel(" warn "))
	buf.Reset()
	Info("hidden")
	Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetLevel_Invalid(t *testing.T) {
	captureLogs(t)
	SetVerbose(false)

	err := SetLevel("loud")
	assert.Error(t, err)
	assert.Equal(t, "info", Level())
}

func TestConfigure(t *testing.T) {
	captureLogs(t)

	t.Setenv(LogEnvVar, "")
	require.NoError(t, Configure(true, ""))
	assert.Equal(t, "debug", Level())

	t.Setenv(LogEnvVar, "warn")
	require.NoError(t, Configure(false, ""))
	assert.Equal(t, "warning", Level())

	require.NoError(t, Configure(false, "trace"))
	assert.Equal(t, "trace", Level(), "explicit level wins over the environment")

	t.Setenv(LogEnvVar, "loud")
	assert.Error(t, Configure(false, ""))
}
