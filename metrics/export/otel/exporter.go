package otel

import (
	"context"
	"errors"
	"fmt"

	goAuthFlow "github.com/MrEthical07/goAuthFlow"
	"github.com/MrEthical07/goAuthFlow/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

// OutcomeKey is the attribute carrying a flow outcome.
const OutcomeKey = attribute.Key("outcome")

type metricsSource interface {
	MetricsSnapshot() goAuthFlow.MetricsSnapshot
	AuditDropped() uint64
}

// failureSource is implemented by sources that also count sink panics.
type failureSource interface {
	AuditFailed() uint64
}

// point binds one snapshot counter to an instrument and attribute set.
type point struct {
	id    goAuthFlow.MetricID
	inst  metric.Int64ObservableCounter
	attrs metric.ObserveOption
}

type latency struct {
	id      goAuthFlow.MetricID
	buckets [8]metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
}

// Exporter publishes an engine's metrics as observable instruments fed by a
// single callback.
//
// Flow outcome counters are folded into one instrument per flow, named
// goauthflow.<flow>, with the outcome in the "outcome" attribute. The
// remaining counters keep their exposition names.
type Exporter struct {
	source       metricsSource
	registration metric.Registration
	points       []point
	latencies    []latency
	auditDropped metric.Int64ObservableCounter
	auditFailed  metric.Int64ObservableCounter
}

// NewExporter registers the instruments for engine on meter.
func NewExporter(meter metric.Meter, engine *goAuthFlow.Engine) (*Exporter, error) {
	if engine == nil {
		return nil, ErrNilSource
	}
	return NewExporterFromSource(meter, engine)
}

// NewExporterFromSource registers the instruments for source on meter.
func NewExporterFromSource(meter metric.Meter, source metricsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &Exporter{source: source}
	var observables []metric.Observable
	var err error

	if observables, err = e.registerCounters(meter, observables); err != nil {
		return nil, err
	}
	if observables, err = e.registerLatencies(meter, observables); err != nil {
		return nil, err
	}

	e.auditDropped, err = meter.Int64ObservableCounter(internaldefs.AuditDroppedName,
		metric.WithDescription(internaldefs.AuditDroppedHelp), metric.WithUnit("{event}"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", internaldefs.AuditDroppedName, err)
	}
	observables = append(observables, e.auditDropped)

	if _, ok := source.(failureSource); ok {
		e.auditFailed, err = meter.Int64ObservableCounter(internaldefs.AuditFailedName,
			metric.WithDescription(internaldefs.AuditFailedHelp), metric.WithUnit("{event}"))
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", internaldefs.AuditFailedName, err)
		}
		observables = append(observables, e.auditFailed)
	}

	e.registration, err = meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	return e, nil
}

func (e *Exporter) registerCounters(meter metric.Meter, observables []metric.Observable) ([]metric.Observable, error) {
	perFlow := map[string]metric.Int64ObservableCounter{}
	for _, def := range internaldefs.CounterDefs {
		if def.Flow == "" {
			inst, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
			if err != nil {
				return nil, fmt.Errorf("create %s: %w", def.Name, err)
			}
			e.points = append(e.points, point{id: def.ID, inst: inst, attrs: metric.WithAttributes()})
			observables = append(observables, inst)
			continue
		}

		inst, ok := perFlow[def.Flow]
		if !ok {
			name := "goauthflow." + def.Flow
			var err error
			inst, err = meter.Int64ObservableCounter(name,
				metric.WithDescription("Submits of the "+def.Flow+" flow by outcome."),
				metric.WithUnit("{submit}"),
			)
			if err != nil {
				return nil, fmt.Errorf("create %s: %w", name, err)
			}
			perFlow[def.Flow] = inst
			observables = append(observables, inst)
		}
		e.points = append(e.points, point{
			id:    def.ID,
			inst:  inst,
			attrs: metric.WithAttributes(OutcomeKey.String(def.Outcome)),
		})
	}
	return observables, nil
}

// registerLatencies exposes each histogram as cumulative bucket gauges plus a
// sample count, since the API has no asynchronous histogram.
func (e *Exporter) registerLatencies(meter metric.Meter, observables []metric.Observable) ([]metric.Observable, error) {
	for _, def := range internaldefs.HistogramDefs {
		l := latency{id: def.ID}
		for i, suffix := range internaldefs.HistogramBoundSuffix {
			name := def.Name + "_bucket_le_" + suffix
			inst, err := meter.Int64ObservableGauge(name,
				metric.WithDescription("Cumulative bucket count of "+def.Name+"."),
				metric.WithUnit("{call}"),
			)
			if err != nil {
				return nil, fmt.Errorf("create %s: %w", name, err)
			}
			l.buckets[i] = inst
			observables = append(observables, inst)
		}
		inst, err := meter.Int64ObservableGauge(def.Name+"_count",
			metric.WithDescription(def.Help+" Sample count."), metric.WithUnit("{call}"))
		if err != nil {
			return nil, fmt.Errorf("create %s_count: %w", def.Name, err)
		}
		l.count = inst
		e.latencies = append(e.latencies, l)
		observables = append(observables, inst)
	}
	return observables, nil
}

func (e *Exporter) observe(_ context.Context, o metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()
	for _, p := range e.points {
		o.ObserveInt64(p.inst, int64(snapshot.Counters[p.id]), p.attrs)
	}
	for _, l := range e.latencies {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snapshot.Histograms[l.id]))
		for i, v := range cumulative {
			o.ObserveInt64(l.buckets[i], int64(v))
		}
		o.ObserveInt64(l.count, int64(cumulative[len(cumulative)-1]))
	}
	o.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))
	if fs, ok := e.source.(failureSource); ok && e.auditFailed != nil {
		o.ObserveInt64(e.auditFailed, int64(fs.AuditFailed()))
	}
	return nil
}

// Close unregisters the callback. Instruments stay registered on the meter
// but report nothing further.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
