package otel

import (
	"context"
	"sync"
	"testing"

	goAuthFlow "github.com/MrEthical07/goAuthFlow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fakeSource struct {
	mu       sync.RWMutex
	snapshot goAuthFlow.MetricsSnapshot
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() goAuthFlow.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := goAuthFlow.MetricsSnapshot{
		Counters:   make(map[goAuthFlow.MetricID]uint64, len(f.snapshot.Counters)),
		Histograms: make(map[goAuthFlow.MetricID][]uint64, len(f.snapshot.Histograms)),
	}
	for k, v := range f.snapshot.Counters {
		out.Counters[k] = v
	}
	for k, buckets := range f.snapshot.Histograms {
		out.Histograms[k] = append([]uint64(nil), buckets...)
	}
	return out
}

func (f *fakeSource) AuditDropped() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dropped
}

func newReader() (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()
	return reader, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
}

// collect flattens one collection into name or name{outcome} keys.
func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]int64{}
	record := func(name string, set attribute.Set, v int64) {
		if outcome, ok := set.Value(OutcomeKey); ok {
			name += "{" + outcome.AsString() + "}"
		}
		out[name] = v
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					record(m.Name, dp.Attributes, dp.Value)
				}
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					record(m.Name, dp.Attributes, dp.Value)
				}
			}
		}
	}
	return out
}

func TestExporterRegistersAndCollects(t *testing.T) {
	reader, provider := newReader()
	src := &fakeSource{
		snapshot: goAuthFlow.MetricsSnapshot{
			Counters: map[goAuthFlow.MetricID]uint64{
				goAuthFlow.MetricLoginSuccess: 3,
			},
			Histograms: map[goAuthFlow.MetricID][]uint64{
				goAuthFlow.MetricAPILatency: {1, 1, 1, 1, 1, 1, 1, 1},
			},
		},
		dropped: 1,
	}

	exp, err := NewExporterFromSource(provider.Meter("goauthflow-test"), src)
	require.NoError(t, err)
	defer func() { assert.NoError(t, exp.Close()) }()

	got := collect(t, reader)
	assert.Equal(t, int64(3), got["goauthflow.login{success}"])
	assert.Contains(t, got, "goauthflow.login{failure}")
	assert.Equal(t, int64(0), got["goauthflow.register{invalid}"])
	assert.Equal(t, int64(0), got["goauthflow_logout_total"])
	assert.Equal(t, int64(1), got["goauthflow_api_latency_seconds_bucket_le_0_025"])
	assert.Equal(t, int64(7), got["goauthflow_api_latency_seconds_bucket_le_2_5"])
	assert.Equal(t, int64(8), got["goauthflow_api_latency_seconds_bucket_le_inf"])
	assert.Equal(t, int64(8), got["goauthflow_api_latency_seconds_count"])
	assert.Equal(t, int64(1), got["goauthflow_audit_dropped_total"])
	assert.NotContains(t, got, "goauthflow_audit_failed_total")
}

func TestExporterGroupsOutcomesPerFlow(t *testing.T) {
	reader, provider := newReader()
	exp, err := NewExporterFromSource(provider.Meter("goauthflow-test"), &fakeSource{})
	require.NoError(t, err)
	defer func() { assert.NoError(t, exp.Close()) }()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "goauthflow.verify_email" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			assert.Len(t, sum.DataPoints, 4)
			assert.Equal(t, "{submit}", m.Unit)
			return
		}
	}
	t.Fatal("goauthflow.verify_email not collected")
}

func TestExporterRejectsNilInputs(t *testing.T) {
	_, provider := newReader()
	meter := provider.Meter("goauthflow-test")

	_, err := NewExporterFromSource(meter, nil)
	assert.ErrorIs(t, err, ErrNilSource)
	_, err = NewExporterFromSource(nil, &fakeSource{})
	assert.ErrorIs(t, err, ErrNilMeter)
	_, err = NewExporter(meter, nil)
	assert.ErrorIs(t, err, ErrNilSource)
}

func TestExporterConcurrentCollect(t *testing.T) {
	reader, provider := newReader()
	src := &fakeSource{
		snapshot: goAuthFlow.MetricsSnapshot{
			Counters:   map[goAuthFlow.MetricID]uint64{goAuthFlow.MetricLoginSuccess: 1},
			Histograms: map[goAuthFlow.MetricID][]uint64{},
		},
	}

	exp, err := NewExporterFromSource(provider.Meter("goauthflow-test"), src)
	require.NoError(t, err)
	defer func() { assert.NoError(t, exp.Close()) }()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			src.mu.Lock()
			src.snapshot.Counters[goAuthFlow.MetricLoginSuccess] = v
			src.mu.Unlock()
			var rm metricdata.ResourceMetrics
			assert.NoError(t, reader.Collect(context.Background(), &rm))
		}(uint64(i))
	}
	wg.Wait()
}

func TestExporterReadsLiveEngine(t *testing.T) {
	reader, provider := newReader()
	engine, err := goAuthFlow.New().Build()
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	exp, err := NewExporter(provider.Meter("goauthflow-test"), engine)
	require.NoError(t, err)
	defer func() { assert.NoError(t, exp.Close()) }()

	require.NoError(t, engine.Logout(context.Background()))
	got := collect(t, reader)
	assert.Equal(t, int64(1), got["goauthflow_logout_total"])
	assert.Equal(t, int64(0), got["goauthflow_audit_failed_total"])
}
