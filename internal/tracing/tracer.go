// Package tracing wires OpenTelemetry for pipeline runs. Disabled tracing
// yields a no-op tracer so callers never branch on it.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Exporter names accepted in Config.Exporter.
const (
	ExporterNone   = "none"
	ExporterFile   = "file"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

const (
	defaultEndpoint    = "localhost:4317"
	defaultServiceName = "bpgroup"
)

// Config configures tracing.
type Config struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Exporter is one of "none", "file", "stdout", "otlp".
	Exporter string `mapstructure:"exporter" yaml:"exporter"`

	// FilePath is required by the file exporter.
	FilePath string `mapstructure:"file_path" yaml:"file_path"`

	OTLPEndpoint string  `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
	ServiceName  string  `mapstructure:"service_name" yaml:"service_name"`
}

// DefaultConfig returns tracing disabled with a file exporter selected.
func DefaultConfig() Config {
	return Config{
		Enabled:      false,
		Exporter:     ExporterFile,
		OTLPEndpoint: defaultEndpoint,
		SampleRate:   1.0,
		ServiceName:  defaultServiceName,
	}
}

// Validate checks the exporter name and sample rate.
func (c Config) Validate() error {
	switch c.Exporter {
	case "", ExporterNone, ExporterFile, ExporterStdout, ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter: unsupported exporter %q", c.Exporter)
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate: must be within [0,1], got %v", c.SampleRate)
	}
	if c.Enabled && c.Exporter == ExporterFile && c.FilePath == "" {
		return fmt.Errorf("tracing.file_path: required for the file exporter")
	}
	return nil
}

// Provider owns the tracer provider for one process.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewProvider builds a provider from cfg. A disabled config returns a
// no-op provider.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{tracer: noop.NewTracerProvider().Tracer(defaultServiceName)}, nil
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	name := cfg.ServiceName
	if name == "" {
		name = defaultServiceName
	}
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 1.0
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", name))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	return &Provider{provider: tp, tracer: tp.Tracer(name)}, nil
}

func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterFile:
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("file_path required for file exporter")
		}
		exp, err := NewFileExporter(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("create file exporter: %w", err)
		}
		return exp, nil
	case ExporterStdout:
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		return exp, nil
	case ExporterOTLP:
		endpoint := cfg.OTLPEndpoint
		if endpoint == "" {
			endpoint = defaultEndpoint
		}
		exp, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
		return exp, nil
	case ExporterNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
	}
}

// Tracer returns the tracer. It is never nil.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled reports whether spans are recorded.
func (p *Provider) Enabled() bool {
	return p.provider != nil
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}
