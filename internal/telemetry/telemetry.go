// Package telemetry provides OpenTelemetry instrumentation for Amuleta.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/samdwyer/amuleta/internal/logging"
)

const (
	serviceName    = "amuleta"
	serviceVersion = "0.1.0"
)

// Exporter names accepted in Config.Exporter.
const (
	ExporterNone = "none"
	ExporterOTLP = "otlp"
	ExporterFile = "file"
)

// Config governs how tracing is initialised.
type Config struct {
	Exporter    string  // none | otlp | file
	FilePath    string  // span output when Exporter == file
	SampleRatio float64 // fraction of root spans kept
}

// Setup initializes the global tracer provider according to cfg.
//
// The otlp exporter reads the standard OTEL_EXPORTER_OTLP_* environment
// variables. The file exporter writes one JSON document per span to
// cfg.FilePath, since stdout belongs to the terminal UI.
//
// Returns a shutdown function that should be called on application exit.
func Setup(ctx context.Context, cfg Config, log logging.Logger) (shutdown func(context.Context) error, err error) {
	log = logging.OrNoop(log)

	exporter, closer, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if exporter == nil {
		otel.SetTracerProvider(noop.NewTracerProvider())
		log.Info(ctx, "tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	// Build resource with service information
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("host.name", getHostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.name", "go"),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	// Register as global provider
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	log.Info(ctx, "tracing enabled",
		logging.String("exporter", cfg.Exporter),
		logging.Any("sample_ratio", ratio),
	)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if closer != nil {
			if cerr := closer.Close(); err == nil {
				err = cerr
			}
		}
		return err
	}, nil
}

// newExporter returns a nil exporter when tracing is disabled.
func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, io.Closer, error) {
	switch strings.ToLower(cfg.Exporter) {
	case "", ExporterNone:
		return nil, nil, nil
	case ExporterOTLP:
		exp, err := otlptracehttp.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("create otlp exporter: %w", err)
		}
		return exp, nil, nil
	case ExporterFile:
		f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open trace file: %w", err)
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(f))
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("create file exporter: %w", err)
		}
		return exp, f, nil
	default:
		return nil, nil, fmt.Errorf("unsupported tracing exporter: %s", cfg.Exporter)
	}
}

// Tracer returns a named tracer for the given component.
// Use this to create spans within different parts of the application.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer("amuleta/" + name)
}

// getHostname returns the system hostname, or "unknown" if it cannot be determined.
func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
