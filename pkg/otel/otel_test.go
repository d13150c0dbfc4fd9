package otel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExporterProtocol(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_PROTOCOL", "")
	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_PROTOCOL", "")

	s, err := newSettings()
	require.NoError(t, err)

	protocol, err := s.exporterProtocol("traces")
	require.NoError(t, err)
	require.Equal(t, ProtocolHTTP, protocol)

	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_PROTOCOL", "http/protobuf")

	protocol, err = s.exporterProtocol("metrics")
	require.NoError(t, err)
	require.Equal(t, ProtocolGRPC, protocol)

	protocol, err = s.exporterProtocol("logs")
	require.NoError(t, err)
	require.Equal(t, ProtocolHTTP, protocol)

	s, err = newSettings(WithProtocol("HTTP"))
	require.NoError(t, err)

	protocol, err = s.exporterProtocol("metrics")
	require.NoError(t, err)
	require.Equal(t, ProtocolHTTP, protocol)
}

func TestNewSettings(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "")

	s, err := newSettings(
		WithMetricInterval(time.Minute),
		WithBatchTimeout(0),
	)

	require.NoError(t, err)
	require.Equal(t, time.Minute, s.metricInterval)
	require.Equal(t, time.Second, s.batchTimeout)

	_, err = newSettings(WithProtocol("thrift"))
	require.Error(t, err)
}

func TestSetupDisabled(t *testing.T) {
	enabled := EnableTelemetry
	t.Cleanup(func() { EnableTelemetry = enabled })

	EnableTelemetry = false

	shutdown, err := Setup(context.Background(), "avatar", "test", WithProtocol("thrift"))
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestSetupInvalidProtocol(t *testing.T) {
	enabled := EnableTelemetry
	t.Cleanup(func() { EnableTelemetry = enabled })

	EnableTelemetry = true

	_, err := Setup(context.Background(), "avatar", "test", WithProtocol("thrift"))
	require.ErrorContains(t, err, "unsupported otlp protocol")
}
