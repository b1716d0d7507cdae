package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackgroundProcessManager(t *testing.T) {
	bpm := NewBackgroundProcessManager(context.Background())

	started := make(chan struct{})
	bpm.StartProcess("loop", func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	})
	bpm.StartProcess("panics", func(context.Context) {
		panic("boom")
	})

	<-started
	assert.Eventually(t, func() bool { return bpm.Running() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, bpm.Shutdown(time.Second))
	assert.Zero(t, bpm.Running())
}

func TestBackgroundProcessManager_ShutdownTimeout(t *testing.T) {
	bpm := NewBackgroundProcessManager(context.Background())
	release := make(chan struct{})
	defer close(release)

	bpm.StartProcess("stuck", func(context.Context) {
		<-release
	})

	assert.ErrorIs(t, bpm.Shutdown(20*time.Millisecond), context.DeadlineExceeded)
}
