package otel

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Transport wraps base with client spans and metrics when telemetry is enabled.
func Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	if !EnableTelemetry {
		return base
	}

	return otelhttp.NewTransport(base)
}
