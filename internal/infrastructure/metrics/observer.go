// Package metrics exports risk assessment metrics to Prometheus.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const namespace = "kycrisk"

// Observer implements usecase.Observer.
type Observer struct {
	assessments        *prometheus.CounterVec
	assessmentFailures *prometheus.CounterVec
	assessmentDuration *prometheus.HistogramVec
	sweepDuration      prometheus.Histogram
	sweepCustomers     *prometheus.CounterVec
	parameterUpdates   metric.Int64Counter
}

// NewObserver registers the collectors on reg and the OpenTelemetry
// instruments on meter.
func NewObserver(reg prometheus.Registerer, meter metric.Meter) (*Observer, error) {
	factory := promauto.With(reg)
	parameterUpdates, err := meter.Int64Counter(namespace+".parameter.updates",
		metric.WithDescription("Risk parameter changes by parameter id"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create parameter update counter: %w", err)
	}

	return &Observer{
		assessments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Completed risk assessments by tier and trigger",
		}, []string{"tier", "trigger"}),
		assessmentFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessment_failures_total",
			Help:      "Failed risk assessments by trigger and reason",
		}, []string{"trigger", "reason"}),
		assessmentDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assessment_duration_seconds",
			Help:      "Time to score and store one assessment",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"trigger"}),
		sweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reassessment_sweep_duration_seconds",
			Help:      "Duration of periodic re-assessment sweeps",
			Buckets:   []float64{1, 5, 15, 30, 60, 300, 900, 1800, 3600},
		}),
		sweepCustomers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reassessment_customers_total",
			Help:      "Customers processed by re-assessment sweeps by outcome",
		}, []string{"outcome"}),
		parameterUpdates: parameterUpdates,
	}, nil
}

func (o *Observer) AssessmentCompleted(tier, trigger string, elapsed time.Duration) {
	o.assessments.WithLabelValues(tier, trigger).Inc()
	o.assessmentDuration.WithLabelValues(trigger).Observe(elapsed.Seconds())
}

func (o *Observer) AssessmentFailed(trigger, reason string) {
	o.assessmentFailures.WithLabelValues(trigger, reason).Inc()
}

func (o *Observer) SweepCompleted(processed, failed int, elapsed time.Duration) {
	o.sweepDuration.Observe(elapsed.Seconds())
	o.sweepCustomers.WithLabelValues("assessed").Add(float64(processed))
	o.sweepCustomers.WithLabelValues("failed").Add(float64(failed))
}

func (o *Observer) ParameterChanged(id string) {
	o.parameterUpdates.Add(context.Background(), 1, metric.WithAttributes(attribute.String("parameter_id", id)))
}
