package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/bibbank/kyc-risk-service/internal/application/usecase"
	"github.com/bibbank/kyc-risk-service/pkg/observability"
)

var _ usecase.Observer = (*Observer)(nil)

func TestObserver_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := NewObserver(reg, noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	o.AssessmentCompleted("HIGH", "SCHEDULED", 20*time.Millisecond)
	o.AssessmentCompleted("HIGH", "SCHEDULED", 10*time.Millisecond)
	o.AssessmentCompleted("LOW", "ON_DEMAND", time.Millisecond)
	o.AssessmentFailed("SCHEDULED", "calculator_ACTIVITY")
	o.SweepCompleted(2, 1, time.Minute)
	o.ParameterChanged("GEOGRAPHIC_RISK")

	assert.Equal(t, 2.0, testutil.ToFloat64(o.assessments.WithLabelValues("HIGH", "SCHEDULED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.assessments.WithLabelValues("LOW", "ON_DEMAND")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.assessmentFailures.WithLabelValues("SCHEDULED", "calculator_ACTIVITY")))
	assert.Equal(t, 2.0, testutil.ToFloat64(o.sweepCustomers.WithLabelValues("assessed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.sweepCustomers.WithLabelValues("failed")))
	assert.Equal(t, 1, testutil.CollectAndCount(o.sweepDuration))
}

func TestObserver_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	meter := noop.NewMeterProvider().Meter("test")
	_, err := NewObserver(reg, meter)
	require.NoError(t, err)

	assert.Panics(t, func() { _, _ = NewObserver(reg, meter) })
}

func TestObserver_ExportsThroughSharedRegistry(t *testing.T) {
	m, err := observability.InitMetrics()
	require.NoError(t, err)

	o, err := NewObserver(m.Registry, m.Provider.Meter("kycrisk"))
	require.NoError(t, err)
	o.AssessmentCompleted("MEDIUM", "ON_DEMAND", time.Millisecond)
	o.ParameterChanged("FINANCIAL_RISK")

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["kycrisk_assessments_total"])
	assert.True(t, names["kycrisk_parameter_updates_total"])
}
