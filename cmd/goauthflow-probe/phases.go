package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goAuthFlow/api"
	"github.com/MrEthical07/goAuthFlow/session"
)

// runPhase spreads ops calls of op over concurrency workers and records the
// latency of each call.
func runPhase(ops, concurrency int, op func(i int) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(i)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

// runLoginPhase logs in repeatedly and returns one issued token for the
// session phase.
func runLoginPhase(ctx context.Context, client *api.Client, opts options) (phaseStats, string) {
	var (
		once  sync.Once
		token string
	)
	stats := runPhase(opts.ops, opts.concurrency, func(int) error {
		resp := client.Login(ctx, api.LoginRequest{Email: opts.email, Password: opts.password})
		if !resp.Success {
			return fmt.Errorf("login rejected: %s", resp.Message)
		}
		var data api.LoginData
		if err := resp.DecodeData(&data); err != nil {
			return err
		}
		once.Do(func() { token = data.Token })
		return nil
	})
	return stats, token
}

// runSessionPhase alternates saving and loading a session, the two store
// operations a login and a later launch perform.
func runSessionPhase(ctx context.Context, store session.Store, token string, opts options) phaseStats {
	if token == "" {
		token = "opaque-probe-token"
	}
	sess := session.Session{
		Token:      token,
		User:       []byte(`{"email":"` + opts.email + `"}`),
		Expiration: time.Now().Add(time.Hour).Format("2006-01-02 15:04:05"),
	}
	return runPhase(opts.ops, opts.concurrency, func(i int) error {
		if i%2 == 0 {
			return session.SaveLogin(ctx, store, sess)
		}
		_, err := session.Load(ctx, store)
		if errors.Is(err, session.ErrNoSession) {
			return nil
		}
		return err
	})
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
