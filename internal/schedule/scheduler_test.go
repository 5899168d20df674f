package schedule

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTimersRunsCallback(t *testing.T) {
	s := New()
	defer s.Stop()

	done := make(chan struct{})
	s.After(5*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback did not run")
	}
	assert.Equal(t, 0, s.Pending())
}

func TestTimersStopCancelsPending(t *testing.T) {
	s := New()

	var ran atomic.Bool
	s.After(20*time.Millisecond, func() { ran.Store(true) })
	s.After(time.Hour, func() { ran.Store(true) })
	assert.Equal(t, 2, s.Pending())

	s.Stop()
	assert.Equal(t, 0, s.Pending())

	time.Sleep(50 * time.Millisecond)
	assert.False(t, ran.Load())

	cancel := s.After(time.Millisecond, func() { ran.Store(true) })
	assert.False(t, cancel())
	time.Sleep(10 * time.Millisecond)
	assert.False(t, ran.Load())
}

func TestTimersCancelSingle(t *testing.T) {
	s := New()
	defer s.Stop()

	var ran atomic.Bool
	cancel := s.After(time.Hour, func() { ran.Store(true) })
	assert.True(t, cancel())
	assert.False(t, cancel())
	assert.Equal(t, 0, s.Pending())
}

func TestManualAdvanceRunsInDueOrder(t *testing.T) {
	m := NewManual()
	var order []int
	m.After(3*time.Second, func() { order = append(order, 3) })
	m.After(2*time.Second, func() { order = append(order, 2) })
	cancel := m.After(time.Second, func() { order = append(order, 1) })
	assert.True(t, cancel())

	m.Advance(1999 * time.Millisecond)
	assert.Empty(t, order)

	m.Advance(time.Millisecond)
	assert.Equal(t, []int{2}, order)

	m.Advance(time.Second)
	assert.Equal(t, []int{2, 3}, order)
	assert.Equal(t, 0, m.Pending())
}

func TestManualStop(t *testing.T) {
	m := NewManual()
	ran := false
	m.After(time.Second, func() { ran = true })
	m.Stop()
	m.Advance(time.Hour)
	assert.False(t, ran)
	m.After(0, func() { ran = true })
	m.Advance(time.Second)
	assert.False(t, ran)
}
