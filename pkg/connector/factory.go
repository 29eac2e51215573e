// pkg/connector/factory.go
package connector

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/David-Botos/cocoa-report/pkg/config"
)

// ConnectorFactory opens the connections the enabled stages need
type ConnectorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewConnectorFactory creates a new connector factory
func NewConnectorFactory(cfg *config.Config, logger *zap.Logger) *ConnectorFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectorFactory{cfg: cfg, logger: logger}
}

// CreateSnowflakeConnector connects to the warehouse source
func (f *ConnectorFactory) CreateSnowflakeConnector(ctx context.Context) (*SnowflakeConnector, error) {
	if f.cfg.Snowflake == nil {
		return nil, errors.New("snowflake is not configured")
	}
	f.logger.Debug("Opening warehouse source", zap.String("table", f.cfg.Snowflake.QualifiedTable()))
	return NewSnowflakeConnector(ctx, f.cfg.Snowflake)
}

// CreatePostgresConnector connects to the export database
func (f *ConnectorFactory) CreatePostgresConnector(ctx context.Context) (*PostgresConnector, error) {
	if f.cfg.Postgres == nil {
		return nil, errors.New("postgreSQL is not configured")
	}
	f.logger.Debug("Opening export sink", zap.String("database", f.cfg.Postgres.Database))
	return NewPostgresConnector(ctx, f.cfg.Postgres)
}
