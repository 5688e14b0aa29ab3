package telemetry

import (
	"context"
	"testing"

	"github.com/basket/tgdispatch/internal/config"
)

func TestInit_Disabled(t *testing.T) {
	p, err := Init(context.Background(), config.TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if p.Tracer == nil || p.Meter == nil || p.Metrics == nil {
		t.Fatal("disabled provider must still expose a usable Tracer/Meter/Metrics")
	}

	ctx, span := StartPropagateSpan(context.Background(), p.Tracer, "root")
	p.Metrics.UpdatesReceived.Add(ctx, 1)
	span.End()

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func TestInit_StdoutExporter(t *testing.T) {
	p, err := Init(context.Background(), config.TelemetryConfig{
		Enabled:  true,
		Exporter: "stdout",
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer p.Shutdown(context.Background())

	ctx, span := StartHandlerSpan(context.Background(), p.Tracer, "echo")
	p.Metrics.HandlerInvocations.Add(ctx, 1)
	span.End()
}

func TestInit_UnknownExporter(t *testing.T) {
	_, err := Init(context.Background(), config.TelemetryConfig{
		Enabled:  true,
		Exporter: "carrier-pigeon",
	})
	if err == nil {
		t.Fatal("expected error for unknown exporter")
	}
}
