package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/infrastructure/config"
)

// RegisterDBTracing attaches the otelgorm plugin so every GORM operation
// emits a child span of the request trace. Query variables are excluded
// from spans; resident and payroll data must not leak into trace storage.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName("postgres"),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return err
	}

	logger.Info("Database tracing enabled")
	return nil
}
