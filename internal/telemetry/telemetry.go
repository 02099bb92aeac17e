// Package telemetry exports service counters to prometheus through the
// otel metric API.
package telemetry

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
)

// NewExporter builds the pull exporter served on /metrics and installs its
// meter provider globally.
func NewExporter() (*prometheus.Exporter, error) {
	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)

	exporter, err := prometheus.New(config, c)
	if err != nil {
		return nil, err
	}
	global.SetMeterProvider(exporter.MeterProvider())

	return exporter, nil
}

type Metrics struct {
	completed metric.Int64Counter
	views     metric.Int64Counter
}

func New(meter metric.Meter) *Metrics {
	must := metric.Must(meter)

	return &Metrics{
		completed: must.NewInt64Counter(
			"http/server/completed_count",
			metric.WithDescription("Count of completed requests, by HTTP method and response status"),
		),
		views: must.NewInt64Counter(
			"article/views",
			metric.WithDescription("Count of article detail views"),
		),
	}
}

// ArticleViewed counts one detail view. The id is not used as a label to
// keep series cardinality flat.
func (m *Metrics) ArticleViewed(ctx context.Context, _ int64) {
	m.views.Add(ctx, 1)
}

// Middleware counts every completed request by method and status.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.completed.Add(r.Context(), 1,
			attribute.String("method", r.Method),
			attribute.Int("status", status),
		)
	})
}
