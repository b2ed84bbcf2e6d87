package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics bundles the registry shared by native Prometheus collectors and the
// OpenTelemetry meter provider, plus the handler serving both.
type Metrics struct {
	Registry *prometheus.Registry
	Provider *sdkmetric.MeterProvider
	Handler  http.Handler
}

// InitMetrics creates a private registry with Go runtime and process collectors
// and bridges OpenTelemetry instruments into it.
func InitMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("observability: prometheus exporter: %w", err)
	}

	return &Metrics{
		Registry: reg,
		Provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)),
		Handler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}, nil
}
