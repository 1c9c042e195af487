package bootstrap

import (
	"drivebook/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		NewRegistry,
		NewMetrics,
	),
)

func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func NewMetrics(registry *prometheus.Registry) *metrics.Metrics {
	return metrics.New(registry)
}
