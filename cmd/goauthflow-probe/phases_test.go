package main

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrEthical07/goAuthFlow/api"
	"github.com/MrEthical07/goAuthFlow/internal/mockapi"
	"github.com/MrEthical07/goAuthFlow/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile(t *testing.T) {
	samples := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, time.Duration(1), percentile(samples, 0))
	assert.Equal(t, time.Duration(5), percentile(samples, 50))
	assert.Equal(t, time.Duration(9), percentile(samples, 95))
	assert.Equal(t, time.Duration(10), percentile(samples, 100))
	assert.Zero(t, percentile(nil, 50))
}

func TestRunPhaseCountsEveryOp(t *testing.T) {
	stats := runPhase(50, 4, func(i int) error {
		if i%10 == 0 {
			return errors.New("fail")
		}
		return nil
	})
	assert.Equal(t, 50, stats.ops)
	assert.Equal(t, int64(5), stats.failures)
}

func TestPhasesAgainstMockAndMiniredis(t *testing.T) {
	opts := options{email: "probe@example.com", password: "probe-secret", concurrency: 3, ops: 12}

	mock := mockapi.New(mockapi.Options{})
	require.NoError(t, mock.Seed("Probe", opts.email, "900000000", opts.password))
	srv := httptest.NewServer(mock)
	t.Cleanup(srv.Close)
	eps, err := api.NewEndpoints(srv.URL)
	require.NoError(t, err)

	ctx := context.Background()
	loginStats, token := runLoginPhase(ctx, api.NewClient(eps, api.WithHTTPClient(srv.Client())), opts)
	assert.Equal(t, 12, loginStats.ops)
	assert.Zero(t, loginStats.failures)
	require.NotEmpty(t, token)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := session.NewRedisStore(rdb, "probe", "probe", time.Hour)

	sessionStats := runSessionPhase(ctx, store, token, opts)
	assert.Equal(t, 12, sessionStats.ops)
	assert.Zero(t, sessionStats.failures)

	got, err := mr.Get("probe:probe:" + session.KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, token, got)
}
