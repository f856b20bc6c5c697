package telemetry

import (
	"context"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const TracerName = "vehicle-insurance-mlops/pipeline"

// InitTracer installs a stdout trace exporter as the global provider.
// When disabled the global no-op provider stays in place.
func InitTracer(ctx context.Context, serviceName string, enabled bool) func(context.Context) error {
	if !enabled {
		return func(context.Context) error { return nil }
	}
	return initTracer(serviceName, os.Stdout)
}

func initTracer(serviceName string, w io.Writer) func(context.Context) error {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		log.WithError(err).Warn("telemetry exporter init failed")
		return func(context.Context) error { return nil }
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
	)

	otel.SetTracerProvider(provider)

	return provider.Shutdown
}

// Tracer returns the pipeline tracer from the current global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
