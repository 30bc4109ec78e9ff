package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderNoneIsNoop(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Exporter: ExporterNone})
	require.NoError(t, err)
	assert.False(t, provider.Enabled())

	_, span := provider.Tracer().Start(context.Background(), "noop-span")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProviderStdoutExportsSpans(t *testing.T) {
	var out bytes.Buffer
	provider, err := NewProvider(context.Background(), Config{Exporter: ExporterStdout, Writer: &out})
	require.NoError(t, err)
	require.True(t, provider.Enabled())

	_, span := provider.Tracer().Start(context.Background(), "relay.deliver")
	require.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
	assert.Contains(t, out.String(), "relay.deliver")
	assert.Contains(t, out.String(), DefaultServiceName)
}

func TestNewProviderRejectsUnknownExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Exporter: "jaeger"})
	assert.EqualError(t, err, `unsupported tracing exporter "jaeger"`)
}
