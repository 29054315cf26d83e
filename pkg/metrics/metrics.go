package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	MigratedEntitiesTotal *prometheus.CounterVec
	MigrationErrorsTotal  prometheus.Counter
	MigrationRunsTotal    *prometheus.CounterVec
	StageDuration         *prometheus.HistogramVec

	DBConnections prometheus.Gauge
}

func NewCollector(serviceName string) *Collector {
	return &Collector{
		MigratedEntitiesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "migration",
			Name:      "entities_total",
			Help:      "Entities created by the legacy migration, by entity kind.",
		}, []string{"entity"}),

		MigrationErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "migration",
			Name:      "record_errors_total",
			Help:      "Legacy records skipped due to per-record errors.",
		}),

		MigrationRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "migration",
			Name:      "runs_total",
			Help:      "Migration runs by outcome.",
		}, []string{"outcome"}),

		StageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "migration",
			Name:      "stage_duration_seconds",
			Help:      "Wall-clock duration of each migration stage.",
			Buckets:   []float64{0.1, 0.5, 1.0, 5.0, 15.0, 60.0, 300.0},
		}, []string{"stage"}),

		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "db",
			Name:      "open_connections",
			Help:      "Current number of open database connections.",
		}),
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
