package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const tracingShutdownTimeout = 5 * time.Second

// setupTracing installs a global tracer provider exporting to endpoint. It
// returns a function that flushes and stops the exporter. With an empty
// endpoint the global no-op provider is kept.
func setupTracing(ctx context.Context, endpoint string) (func(), error) {
	if endpoint == "" {
		return func() {}, nil
	}

	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)

	slog.Debug("exporting traces", slog.String("endpoint", endpoint))

	return func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tracingShutdownTimeout)
		defer cancel()

		err := tp.Shutdown(ctx)
		if err != nil {
			slog.Error("shutdown tracer provider", slog.Any("err", err))
		}
	}, nil
}
