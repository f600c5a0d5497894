package logx

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugDomainFiltering(t *testing.T) {
	debugMutex.Lock()
	debugConfig = &DebugConfig{}
	debugMutex.Unlock()

	assert.False(t, IsDebugEnabledForDomain("dispatch"))

	debugMutex.Lock()
	debugConfig.Enabled = true
	debugMutex.Unlock()

	assert.True(t, IsDebugEnabledForDomain("dispatch"), "no domain filter means all domains enabled")

	SetDebugDomains([]string{"dispatch", "transport.jsonrpc"})
	assert.True(t, IsDebugEnabledForDomain("dispatch"))
	assert.False(t, IsDebugEnabledForDomain("tools"))

	SetDebugDomains(nil)
	assert.True(t, IsDebugEnabledForDomain("tools"), "clearing the domain list re-enables everything")
}

func TestInitDebugFromEnv(t *testing.T) {
	require.NoError(t, os.Setenv("DEBUG", "1"))
	require.NoError(t, os.Setenv("DEBUG_DOMAINS", "dispatch, tools"))
	t.Cleanup(func() {
		os.Unsetenv("DEBUG")
		os.Unsetenv("DEBUG_DOMAINS")
	})

	initDebugFromEnv()

	assert.True(t, IsDebugEnabledForDomain("dispatch"))
	assert.True(t, IsDebugEnabledForDomain("tools"))
	assert.False(t, IsDebugEnabledForDomain("mcpadapter"))
}

func TestWrapNilIsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "setup"))
}

func TestWrapAndErrorf(t *testing.T) {
	cause := Errorf("boom %d", 7)
	require.Error(t, cause)

	wrapped := Wrap(cause, "starting transport")
	require.Error(t, wrapped)
	assert.Contains(t, wrapped.Error(), "starting transport")
	assert.Contains(t, wrapped.Error(), "boom 7")
}

func TestLoggerDoesNotPanic(t *testing.T) {
	l := NewLogger("bridge-server")
	l.Info("listening on %s", "127.0.0.1:9876")
	l.Warn("slow connection from %s", "client-1")
	l.Error("dispatch failed: %v", context.DeadlineExceeded)

	child := l.WithComponent("dispatch")
	assert.Equal(t, "dispatch", child.Component())
}
