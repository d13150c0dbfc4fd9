package otel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	sdkresource "go.opentelemetry.io/otel/sdk/resource"
)

type ShutdownFunc func(ctx context.Context) error

const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http/protobuf"
)

type Option func(*settings)

type settings struct {
	protocol string

	metricInterval time.Duration
	batchTimeout   time.Duration
}

// WithProtocol selects the OTLP exporter protocol for all signals. When unset
// the OTEL_EXPORTER_OTLP_*PROTOCOL variables apply.
func WithProtocol(protocol string) Option {
	return func(s *settings) {
		if protocol != "" {
			s.protocol = protocol
		}
	}
}

func WithMetricInterval(interval time.Duration) Option {
	return func(s *settings) {
		if interval > 0 {
			s.metricInterval = interval
		}
	}
}

func WithBatchTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		if timeout > 0 {
			s.batchTimeout = timeout
		}
	}
}

func newSettings(options ...Option) (*settings, error) {
	s := &settings{
		metricInterval: 10 * time.Second,
		batchTimeout:   time.Second,
	}

	for _, option := range options {
		option(s)
	}

	for _, signal := range []string{"traces", "metrics", "logs"} {
		if _, err := s.exporterProtocol(signal); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// exporterProtocol resolves the protocol for a signal: the explicit setting
// first, then the per-signal and generic environment variables.
func (s *settings) exporterProtocol(signal string) (string, error) {
	protocol := s.protocol

	if protocol == "" {
		protocol = os.Getenv("OTEL_EXPORTER_OTLP_" + strings.ToUpper(signal) + "_PROTOCOL")
	}

	if protocol == "" {
		protocol = os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL")
	}

	switch strings.ToLower(protocol) {
	case ProtocolGRPC:
		return ProtocolGRPC, nil

	case "", "http", ProtocolHTTP:
		return ProtocolHTTP, nil

	default:
		return "", fmt.Errorf("unsupported otlp protocol %q for %s", protocol, signal)
	}
}

// Setup installs the OTLP log, metric and trace pipelines when telemetry is
// enabled. The returned function flushes and stops them.
func Setup(ctx context.Context, name, version string, options ...Option) (ShutdownFunc, error) {
	if !EnableTelemetry {
		return func(context.Context) error { return nil }, nil
	}

	s, err := newSettings(options...)

	if err != nil {
		return nil, err
	}

	resource, err := sdkresource.Merge(sdkresource.Default(), sdkresource.NewSchemaless(
		attribute.String("service.name", name),
		attribute.String("service.version", version),
	))

	if err != nil {
		return nil, err
	}

	var shutdowns []ShutdownFunc

	shutdown := func(ctx context.Context) error {
		var result error

		for _, s := range shutdowns {
			result = errors.Join(result, s(ctx))
		}

		return result
	}

	for _, setup := range []func(context.Context, *settings, *sdkresource.Resource) (ShutdownFunc, error){
		setupTracer,
		setupMeter,
		setupLogger,
	} {
		sd, err := setup(ctx, s, resource)

		if err != nil {
			return nil, errors.Join(err, shutdown(ctx))
		}

		shutdowns = append(shutdowns, sd)
	}

	return shutdown, nil
}
