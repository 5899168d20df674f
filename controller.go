package goAuthFlow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrEthical07/goAuthFlow/internal/schedule"
	"github.com/samber/oops"
)

// CodePanicked tags a panic recovered outside the backend call path.
const CodePanicked = "SUBMIT_PANIC"

// controller is the lifecycle shared by every screen: one submit in flight,
// guaranteed exit from submitting, and timers bound to the mounted lifetime.
type controller struct {
	engine *Engine
	screen Screen
	sched  schedule.Scheduler

	mu     sync.Mutex
	state  State
	busy   bool
	closed bool
	// final screens stop accepting submits after their first success; done
	// records that it happened.
	final bool
	done  bool
	// canSubmit reports whether the form may be submitted. Called with mu held.
	canSubmit func() bool
}

func (c *controller) init(e *Engine, screen Screen, canSubmit func() bool) {
	c.engine = e
	c.screen = screen
	c.sched = e.scheduler()
	c.canSubmit = canSubmit
	c.mu.Lock()
	c.refreshLocked()
	c.mu.Unlock()
	e.mount(c)
}

// State returns the current render snapshot.
func (c *controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Screen names the screen this controller drives.
func (c *controller) Screen() Screen {
	return c.screen
}

// Close unmounts the screen. Pending timed navigations are cancelled and
// later submits fail with ErrClosed. Close is idempotent.
func (c *controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.state.CanSubmit = false
	c.mu.Unlock()

	for i := c.sched.Pending(); i > 0; i-- {
		c.engine.metricInc(MetricNavigationCancelled)
	}
	c.sched.Stop()
	c.engine.unmount(c)
}

func (c *controller) refreshLocked() {
	ok := !c.closed && !c.busy && !c.done
	if ok && c.canSubmit != nil {
		ok = c.canSubmit()
	}
	c.state.CanSubmit = ok
}

// update mutates the state under the lock and recomputes CanSubmit.
func (c *controller) update(fn func(*State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
	c.refreshLocked()
}

// submit runs fn as one submission. It clears the previous error, enters
// submitting, and always leaves it: onSuccess or the error text is applied
// on every exit path, including a panic inside fn.
func (c *controller) submit(ctx context.Context, fn func(context.Context) error, onSuccess func(*State)) (err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.busy {
		c.mu.Unlock()
		c.engine.metricInc(MetricSubmitBusy)
		return ErrBusy
	}
	if c.done {
		c.mu.Unlock()
		return ErrCompleted
	}
	if !c.engine.flows.Initialized() {
		c.mu.Unlock()
		return ErrEngineNotReady
	}
	c.busy = true
	c.state.Status = StatusSubmitting
	c.state.Submitting = true
	c.state.Error = ""
	c.refreshLocked()
	c.mu.Unlock()

	ctx = submitContext(ctx, c.screen)

	defer func() {
		if r := recover(); r != nil {
			err = oops.Code(CodePanicked).
				With("screen", string(c.screen)).
				Wrap(fmt.Errorf("%w: %v", ErrConnection, r))
			c.engine.logger.Error().Str("screen", string(c.screen)).Err(err).Msg("submit panicked")
		}

		c.mu.Lock()
		c.busy = false
		c.state.Submitting = false
		if err == nil {
			c.state.Status = StatusSuccess
			c.done = c.final
			if onSuccess != nil {
				onSuccess(&c.state)
			}
		} else {
			c.state.Status = StatusError
			c.state.Error = DisplayMessage(err)
		}
		c.refreshLocked()
		c.mu.Unlock()
	}()

	return fn(ctx)
}

// navigate hands nav to the host unless the screen was closed.
func (c *controller) navigate(nav Navigation) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}
	c.engine.navigate(c.screen, nav)
}

// navigateAfter schedules nav on the screen's scheduler. Close cancels it.
func (c *controller) navigateAfter(d time.Duration, nav Navigation) {
	c.sched.After(d, func() { c.navigate(nav) })
}

// PendingNavigations reports timed navigations not yet fired or cancelled.
func (c *controller) PendingNavigations() int {
	return c.sched.Pending()
}
