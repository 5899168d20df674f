package goAuthFlow

import (
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goAuthFlow/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsDisabledNoIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricLoginSuccess)

	assert.Zero(t, m.Value(MetricLoginSuccess))
	assert.Empty(t, m.Snapshot().Counters)
}

func TestMetricsConcurrentIncrementSafe(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 32
	const perG = 4000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				m.Inc(MetricRegisterSuccess)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(goroutines*perG), m.Value(MetricRegisterSuccess))
}

func TestMetricsHistogramBucketCorrectness(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	for _, d := range []time.Duration{
		25 * time.Millisecond,
		50 * time.Millisecond,
		100 * time.Millisecond,
		250 * time.Millisecond,
		500 * time.Millisecond,
		time.Second,
		2500 * time.Millisecond,
		time.Minute,
	} {
		m.Observe(MetricAPILatency, d)
	}
	m.Observe(MetricLoginSuccess, time.Second)

	buckets := m.Snapshot().Histograms[MetricAPILatency]
	require.Len(t, buckets, 8)
	for i, v := range buckets {
		assert.Equal(t, uint64(1), v, "bucket %d", i)
	}
}

func TestMetricsObserveRequest(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})
	m.ObserveRequest(api.EndpointLogin, api.KindNone, 10*time.Millisecond)
	m.ObserveRequest(api.EndpointLogin, api.KindTransport, 10*time.Millisecond)
	m.ObserveRequest(api.EndpointRegister, api.KindDecode, 10*time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, uint64(3), snap.Counters[MetricAPIRequest])
	assert.Equal(t, uint64(2), snap.Counters[MetricAPIConnectionFailure])
	assert.Equal(t, uint64(3), snap.Histograms[MetricAPILatency][0])
	_, hasLatencyCounter := snap.Counters[MetricAPILatency]
	assert.False(t, hasLatencyCounter)
}
