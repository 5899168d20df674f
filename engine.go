package goAuthFlow

import (
	"context"
	"sync"

	"github.com/MrEthical07/goAuthFlow/api"
	internalaudit "github.com/MrEthical07/goAuthFlow/internal/audit"
	"github.com/MrEthical07/goAuthFlow/internal/flows"
	"github.com/MrEthical07/goAuthFlow/internal/schedule"
	"github.com/MrEthical07/goAuthFlow/session"
	"github.com/rs/zerolog"
)

// Engine owns the resources shared by the auth screens: the API client, the
// session store, metrics and the audit dispatcher. Build one with Builder and
// mount screens from it. Only one screen is mounted at a time; mounting a new
// one closes the previous.
type Engine struct {
	config       Config
	client       *api.Client
	store        session.Store
	navigator    Navigator
	logger       zerolog.Logger
	metrics      *Metrics
	audit        *internalaudit.Dispatcher
	flows        flows.Service
	newScheduler func() schedule.Scheduler

	mu      sync.Mutex
	mounted *controller
}

func (e *Engine) scheduler() schedule.Scheduler {
	if e.newScheduler == nil {
		return schedule.New()
	}
	return e.newScheduler()
}

// Close unmounts the current screen, cancelling its timed navigations, and
// drains the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.mu.Lock()
	current := e.mounted
	e.mu.Unlock()
	if current != nil {
		current.Close()
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Client returns the API client used by every screen.
func (e *Engine) Client() *api.Client {
	return e.client
}

// Store returns the session store.
func (e *Engine) Store() session.Store {
	return e.store
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return cloneConfig(e.config)
}

// Mounted returns the screen currently mounted, or "" when none is.
func (e *Engine) Mounted() Screen {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mounted == nil {
		return ""
	}
	return e.mounted.screen
}

// Session returns the persisted login state, or ErrNoSession.
func (e *Engine) Session(ctx context.Context) (session.Session, error) {
	if e == nil || e.store == nil {
		return session.Session{}, ErrEngineNotReady
	}
	return session.Load(ctx, e.store)
}

// PendingEmail returns the email awaiting verification, or "".
func (e *Engine) PendingEmail(ctx context.Context) (string, error) {
	if e == nil || e.store == nil {
		return "", ErrEngineNotReady
	}
	return session.PendingEmail(ctx, e.store)
}

// Logout forgets the persisted login. Nothing is sent to the backend.
func (e *Engine) Logout(ctx context.Context) error {
	if e == nil || !e.flows.Initialized() {
		return ErrEngineNotReady
	}
	return e.flows.Logout(submitContext(ctx, ""))
}

// AuditDropped reports events dropped by a full audit buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// AuditFailed reports events lost to a panicking audit sink.
func (e *Engine) AuditFailed() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Failed()
}

// MetricsSnapshot returns a copy of every metric.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) mount(c *controller) {
	e.mu.Lock()
	prev := e.mounted
	e.mounted = c
	e.mu.Unlock()

	if prev != nil && prev != c {
		prev.Close()
	}
	e.logger.Debug().Str("screen", string(c.screen)).Msg("screen mounted")
}

func (e *Engine) unmount(c *controller) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mounted == c {
		e.mounted = nil
	}
}

func (e *Engine) navigate(from Screen, nav Navigation) {
	e.metricInc(MetricNavigation)
	e.emitAudit(withScreen(context.Background(), from), AuditEventNavigate, true, nav.State.Email, nil, func() map[string]string {
		return map[string]string{"to": string(nav.To)}
	})
	e.logger.Debug().Str("from", string(from)).Str("to", string(nav.To)).Msg("navigate")
	if e.navigator != nil {
		e.navigator.Navigate(nav)
	}
}
