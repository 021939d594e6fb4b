package telemetry

import (
	"context"

	"github.com/sbu-community/sentinel/internal/setup/config"
	"github.com/uptrace/uptrace-go/uptrace"
)

// SetupTracing configures the global OpenTelemetry providers to export to Uptrace.
// It returns a shutdown function that flushes pending spans; with no DSN
// configured tracing stays on the no-op provider and shutdown does nothing.
func SetupTracing(cfg *config.Telemetry, serviceType ServiceType) func(context.Context) error {
	if cfg.UptraceDSN == "" {
		return func(context.Context) error { return nil }
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName+"-"+serviceType.String()),
	)

	return uptrace.Shutdown
}
