package application

import (
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type instrumentation struct {
	logger *slog.Logger
	tracer trace.Tracer
}

type Option func(*instrumentation)

func WithLogger(logger *slog.Logger) Option {
	return func(i *instrumentation) {
		if logger != nil {
			i.logger = logger
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(i *instrumentation) {
		if tracer != nil {
			i.tracer = tracer
		}
	}
}

func newInstrumentation(opts []Option) instrumentation {
	i := instrumentation{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer: noop.NewTracerProvider().Tracer("noop"),
	}
	for _, opt := range opts {
		opt(&i)
	}
	return i
}
