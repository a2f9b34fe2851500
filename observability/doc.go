// Package observability wires robusthttp client metrics into OpenTelemetry.
//
// The client records its metrics against the global meter provider, so they
// are no-ops until an application installs one. InitMeter sets up an OTLP
// HTTP exporter at the composition point:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("payments"))
//	defer mp.Shutdown(ctx)
package observability
