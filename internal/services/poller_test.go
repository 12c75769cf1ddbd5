package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recognicam-go/internal/config"
	"recognicam-go/internal/session"
)

func TestPollerAppendsSnapshots(t *testing.T) {
	sessions := session.NewManager(config.Default(), nil)
	s := sessions.Create()

	p := NewPoller(10*time.Millisecond, nil)
	p.Start(s)
	p.Start(s) // second start is a no-op, must not double-poll

	require.Eventually(t, func() bool {
		return len(s.Snapshots()) >= 3
	}, time.Second, 5*time.Millisecond)

	p.Stop(s.ID)
	n := len(s.Snapshots())
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, len(s.Snapshots()), n+1, "polling must stop after Stop")

	p.Stop(s.ID) // idempotent
}

func TestPollerIntervalFloor(t *testing.T) {
	p := NewPoller(0, nil)
	assert.Equal(t, time.Second, p.interval)
}
