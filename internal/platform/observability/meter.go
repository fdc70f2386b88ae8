package observability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// newMeterProvider builds a provider that pushes the service counters on a
// periodic reader. It returns nil when metrics export is disabled; the export
// interval follows OTEL_METRIC_EXPORT_INTERVAL.
func newMeterProvider(ctx context.Context, res *resource.Resource, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	kind := exporterKind("OTEL_METRICS_EXPORTER")
	exporter, err := newMetricExporter(ctx, kind)
	if err != nil {
		return nil, err
	}
	if exporter == nil {
		logger.Info("metrics export disabled")
		return nil, nil
	}
	logger.Info("metrics export enabled", slog.String("exporter", kind))
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	), nil
}

func newMetricExporter(ctx context.Context, kind string) (sdkmetric.Exporter, error) {
	switch kind {
	case exporterNone:
		return nil, nil
	case exporterStdout:
		return stdoutmetric.New()
	}
	opts := []otlpmetrichttp.Option{}
	if endpoint := otlpEndpoint(); endpoint != "" {
		opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
	}
	if otlpInsecure() {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP metric exporter: %w", err)
	}
	return exporter, nil
}

// exporterKind resolves an OTEL_*_EXPORTER variable. Without an explicit
// choice OTLP is used when an endpoint is configured and nothing otherwise.
func exporterKind(envKey string) string {
	switch kind := strings.ToLower(envOrDefault(envKey, "")); kind {
	case exporterOTLP, exporterStdout, exporterNone:
		return kind
	}
	if otlpEndpoint() != "" {
		return exporterOTLP
	}
	return exporterNone
}
