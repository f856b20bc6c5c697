package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracer_ExportsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	shutdown := initTracer("test-service", &buf)

	_, span := Tracer().Start(context.Background(), "data_ingestion")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name":"data_ingestion"`)
	assert.Contains(t, buf.String(), "test-service")
}

func TestInitTracer_Disabled(t *testing.T) {
	shutdown := InitTracer(context.Background(), "svc", false)
	assert.NoError(t, shutdown(context.Background()))
}
