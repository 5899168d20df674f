package goAuthFlow

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/MrEthical07/goAuthFlow/internal/schedule"
	"github.com/MrEthical07/goAuthFlow/session"
	"github.com/stretchr/testify/require"
)

// fakeBackend answers every auth path with a canned body and records calls.
type fakeBackend struct {
	mu      sync.Mutex
	replies map[string]string
	calls   map[string]int
	bodies  map[string][]map[string]any
	gate    chan struct{}
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	b := &fakeBackend{
		replies: map[string]string{},
		calls:   map[string]int{},
		bodies:  map[string][]map[string]any{},
	}
	srv := httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	b.mu.Lock()
	b.calls[r.URL.Path]++
	b.bodies[r.URL.Path] = append(b.bodies[r.URL.Path], body)
	reply, ok := b.replies[r.URL.Path]
	gate := b.gate
	b.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if !ok {
		reply = `{"success":true}`
	}
	_, _ = io.WriteString(w, reply)
}

func (b *fakeBackend) reply(path, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies[path] = body
}

// hold makes every request wait until the returned func is called.
func (b *fakeBackend) hold() (release func()) {
	gate := make(chan struct{})
	b.mu.Lock()
	b.gate = gate
	b.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			b.gate = nil
			b.mu.Unlock()
			close(gate)
		})
	}
}

func (b *fakeBackend) count(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

func (b *fakeBackend) total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

func (b *fakeBackend) lastBody(path string) map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	bodies := b.bodies[path]
	if len(bodies) == 0 {
		return nil
	}
	return bodies[len(bodies)-1]
}

type navRecorder struct {
	mu   sync.Mutex
	navs []Navigation
}

func (r *navRecorder) Navigate(n Navigation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navs = append(r.navs, n)
}

func (r *navRecorder) all() []Navigation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Navigation(nil), r.navs...)
}

type harness struct {
	engine  *Engine
	backend *fakeBackend
	store   *session.MemoryStore
	navs    *navRecorder

	mu     sync.Mutex
	clocks []*schedule.Manual
}

// clock returns the manual scheduler of the most recently mounted screen.
func (h *harness) clock() *schedule.Manual {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clocks[len(h.clocks)-1]
}

func newHarness(t *testing.T, configure ...func(*Builder)) *harness {
	t.Helper()
	backend, srv := newFakeBackend(t)
	h := &harness{
		backend: backend,
		store:   session.NewMemoryStore(),
		navs:    &navRecorder{},
	}

	b := New().
		WithBaseURL(srv.URL).
		WithHTTPClient(srv.Client()).
		WithSessionStore(h.store).
		WithNavigator(h.navs)
	for _, fn := range configure {
		fn(b)
	}
	engine, err := b.Build()
	require.NoError(t, err)
	engine.newScheduler = func() schedule.Scheduler {
		m := schedule.NewManual()
		h.mu.Lock()
		h.clocks = append(h.clocks, m)
		h.mu.Unlock()
		return m
	}
	t.Cleanup(engine.Close)
	h.engine = engine
	return h
}

func (h *harness) stored(t *testing.T, key string) (string, bool) {
	t.Helper()
	v, ok, err := h.store.Get(t.Context(), key)
	require.NoError(t, err)
	return v, ok
}
