package schedule

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs callbacks after a delay until stopped.
type Scheduler interface {
	// After runs fn once d has elapsed. The returned cancel reports whether it
	// prevented the callback from running.
	After(d time.Duration, fn func()) (cancel func() bool)
	// Pending reports callbacks scheduled but not yet run or cancelled.
	Pending() int
	// Stop cancels every pending callback. Later After calls are no-ops.
	Stop()
}

// Timers is the wall-clock Scheduler backed by time.AfterFunc.
type Timers struct {
	mu      sync.Mutex
	timers  map[uint64]*time.Timer
	next    uint64
	stopped bool
}

// New returns a wall-clock scheduler.
func New() *Timers {
	return &Timers{timers: make(map[uint64]*time.Timer)}
}

// After implements Scheduler.
func (s *Timers) After(d time.Duration, fn func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || fn == nil {
		return func() bool { return false }
	}

	s.next++
	id := s.next
	s.timers[id] = time.AfterFunc(d, func() {
		if !s.claim(id) {
			return
		}
		fn()
	})

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		t, ok := s.timers[id]
		if !ok {
			return false
		}
		delete(s.timers, id)
		return t.Stop()
	}
}

func (s *Timers) claim(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	if _, ok := s.timers[id]; !ok {
		return false
	}
	delete(s.timers, id)
	return true
}

// Pending implements Scheduler.
func (s *Timers) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop implements Scheduler.
func (s *Timers) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Manual is a Scheduler driven by Advance instead of the wall clock.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	tasks   map[uint64]manualTask
	next    uint64
	stopped bool
}

type manualTask struct {
	id  uint64
	due time.Duration
	fn  func()
}

// NewManual returns a scheduler whose clock starts at zero.
func NewManual() *Manual {
	return &Manual{tasks: make(map[uint64]manualTask)}
}

// After implements Scheduler.
func (m *Manual) After(d time.Duration, fn func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || fn == nil {
		return func() bool { return false }
	}
	m.next++
	id := m.next
	m.tasks[id] = manualTask{id: id, due: m.now + d, fn: fn}

	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.tasks[id]; !ok {
			return false
		}
		delete(m.tasks, id)
		return true
	}
}

// Advance moves the clock forward by d and runs every callback that became
// due, in due order, on the calling goroutine.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	due := make([]manualTask, 0, len(m.tasks))
	for id, task := range m.tasks {
		if task.due <= m.now {
			due = append(due, task)
			delete(m.tasks, id)
		}
	}
	m.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].due == due[j].due {
			return due[i].id < due[j].id
		}
		return due[i].due < due[j].due
	})
	for _, task := range due {
		m.mu.Lock()
		stopped := m.stopped
		m.mu.Unlock()
		if stopped {
			return
		}
		task.fn()
	}
}

// Pending implements Scheduler.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Stop implements Scheduler.
func (m *Manual) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	m.tasks = make(map[uint64]manualTask)
}
