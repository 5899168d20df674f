package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goAuthFlow "github.com/MrEthical07/goAuthFlow"
	"github.com/MrEthical07/goAuthFlow/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHeaders(t *testing.T) (*httptest.Server, *http.Header) {
	t.Helper()
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func post(t *testing.T, c *http.Client, ctx context.Context, url string, headers map[string]string) {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(`{}`))
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
}

func TestRequestIDFromContext(t *testing.T) {
	srv, got := echoHeaders(t)
	c := NewHTTPClient(srv.Client().Transport, RequestID())

	post(t, c, goAuthFlow.WithRequestID(context.Background(), "rid-42"), srv.URL, nil)
	assert.Equal(t, "rid-42", got.Get(HeaderRequestID))
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	srv, got := echoHeaders(t)
	c := NewHTTPClient(srv.Client().Transport, RequestID())

	post(t, c, context.Background(), srv.URL, nil)
	_, err := uuid.Parse(got.Get(HeaderRequestID))
	assert.NoError(t, err)

	post(t, c, context.Background(), srv.URL, map[string]string{HeaderRequestID: "caller"})
	assert.Equal(t, "caller", got.Get(HeaderRequestID))
}

func TestRequestIDDoesNotMutateCallerRequest(t *testing.T) {
	var seen *http.Request
	rt := Chain(RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seen = r
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(""))}, nil
	}), RequestID())

	req := httptest.NewRequest(http.MethodPost, "http://backend/auth/login.php", nil)
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Empty(t, req.Header.Get(HeaderRequestID))
	assert.NotEmpty(t, seen.Header.Get(HeaderRequestID))
}

func TestLoggingWritesOneLinePerCall(t *testing.T) {
	srv, _ := echoHeaders(t)
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	c := NewHTTPClient(srv.Client().Transport, RequestID(), Logging(logger))

	post(t, c, goAuthFlow.WithRequestID(context.Background(), "rid-1"), srv.URL+"/auth/login.php", nil)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "/auth/login.php", line["path"])
	assert.Equal(t, "rid-1", line["request_id"])
	assert.EqualValues(t, http.StatusOK, line["status"])
}

func TestLoggingTransportError(t *testing.T) {
	var buf bytes.Buffer
	rt := Chain(RoundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}), Logging(zerolog.New(&buf)))

	_, err := rt.RoundTrip(httptest.NewRequest(http.MethodPost, "http://backend/auth/register.php", nil))
	require.Error(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "connection refused", line["error"])
}

func TestBearerUsesPersistedToken(t *testing.T) {
	srv, got := echoHeaders(t)
	store := session.NewMemoryStore()
	c := NewHTTPClient(srv.Client().Transport, Bearer(store))

	post(t, c, context.Background(), srv.URL, nil)
	assert.Empty(t, got.Get("Authorization"))

	require.NoError(t, session.SaveLogin(context.Background(), store, session.Session{Token: "tok-9"}))
	post(t, c, context.Background(), srv.URL, nil)
	assert.Equal(t, "Bearer tok-9", got.Get("Authorization"))

	post(t, c, context.Background(), srv.URL, map[string]string{"Authorization": "Basic x"})
	assert.Equal(t, "Basic x", got.Get("Authorization"))
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(r)
			})
		}
	}
	rt := Chain(RoundTripperFunc(func(*http.Request) (*http.Response, error) {
		order = append(order, "base")
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(""))}, nil
	}), mark("a"), nil, mark("b"))

	_, err := rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://backend/", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "base"}, order)
}
