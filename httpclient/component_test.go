package httpclient

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/robusthttp/component"
	"github.com/kbukum/robusthttp/resilience"
)

func TestComponent_Lifecycle(t *testing.T) {
	ctx := context.Background()
	comp := NewComponent(Config{Name: "orders", BaseURL: "https://api.example.com"})

	if comp.Name() != "orders" {
		t.Errorf("Name = %q", comp.Name())
	}
	if got := comp.Health(ctx); got.Status != component.StatusUnhealthy {
		t.Errorf("health before start = %s", got.Status)
	}
	if comp.Client() != nil {
		t.Error("client must be nil before start")
	}

	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if comp.Client() == nil {
		t.Fatal("client must exist after start")
	}
	if got := comp.Health(ctx); got.Status != component.StatusHealthy {
		t.Errorf("health after start = %s", got.Status)
	}
	if err := comp.Start(ctx); err != nil {
		t.Errorf("second Start must be a no-op, got %v", err)
	}

	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if comp.Client() != nil {
		t.Error("client must be released after stop")
	}
	if err := comp.Stop(ctx); err != nil {
		t.Errorf("second Stop must be a no-op, got %v", err)
	}
}

func TestComponent_StartFailsOnBadConfig(t *testing.T) {
	comp := NewComponent(Config{BaseURL: "::bad"})
	if err := comp.Start(context.Background()); err == nil {
		t.Fatal("expected start to fail validation")
	}
}

func TestComponent_DegradedWhileCircuitOpen(t *testing.T) {
	ctx := context.Background()
	comp := NewComponent(Config{
		Name: "orders",
		CircuitBreaker: &resilience.CircuitBreakerConfig{
			FailureThreshold: 1,
			ResetTimeout:     time.Minute,
		},
	})
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _ = comp.Stop(ctx) }()

	comp.Client().CircuitBreaker().RecordFailure()
	if got := comp.Health(ctx); got.Status != component.StatusDegraded {
		t.Errorf("health = %s, want degraded while the circuit is open", got.Status)
	}
}

func TestComponent_Describe(t *testing.T) {
	comp := NewComponent(Config{Name: "orders", BaseURL: "https://api.example.com"})
	desc := comp.Describe()
	if desc.Type != "http-client" {
		t.Errorf("type = %q", desc.Type)
	}
	if desc.Details != "https://api.example.com" {
		t.Errorf("details = %q", desc.Details)
	}
}

func TestNewComponent_NameFallback(t *testing.T) {
	if got := NewComponent(Config{}).Name(); got != "httpclient" {
		t.Errorf("Name = %q", got)
	}
}
