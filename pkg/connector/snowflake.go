// pkg/connector/snowflake.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sf "github.com/snowflakedb/gosnowflake"
	"go.uber.org/zap"

	"github.com/David-Botos/cocoa-report/pkg/config"
)

// SnowflakeDriver is the database/sql driver registered by gosnowflake
const SnowflakeDriver = "snowflake"

// SnowflakeConnector is the warehouse source connection
type SnowflakeConnector struct {
	db     *sql.DB
	logger *zap.Logger
	cfg    *config.SnowflakeConfig
}

// NewSnowflakeConnector connects to the warehouse holding the crop statistics table
func NewSnowflakeConnector(ctx context.Context, cfg *config.SnowflakeConfig) (*SnowflakeConnector, error) {
	logger := zap.L().Named("snowflake-connector")

	logger.Info("Connecting to Snowflake",
		zap.String("account", cfg.Account),
		zap.String("warehouse", cfg.Warehouse),
		zap.String("table", cfg.QualifiedTable()),
		zap.String("role", cfg.Role))

	dsn, err := sf.DSN(cfg.DriverConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to build Snowflake DSN: %w", err)
	}

	db, err := openPool(ctx, SnowflakeDriver, dsn, cfg.Pool, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Snowflake: %w", err)
	}

	LogConnectionStats(logger, cfg.Database, db)
	return &SnowflakeConnector{db: db, logger: logger, cfg: cfg}, nil
}

func (c *SnowflakeConnector) DB() *sql.DB { return c.db }

func (c *SnowflakeConnector) DriverName() string { return SnowflakeDriver }

// QualifiedTable returns the fully qualified source table name
func (c *SnowflakeConnector) QualifiedTable() string {
	return c.cfg.QualifiedTable()
}

// QueryTimeout bounds the source query; the loader applies it per call
func (c *SnowflakeConnector) QueryTimeout() time.Duration {
	return c.cfg.QueryTimeout
}

// Close closes the database connection
func (c *SnowflakeConnector) Close() error {
	LogConnectionStats(c.logger, c.cfg.Database, c.db)
	c.logger.Debug("Closing Snowflake connection")
	return c.db.Close()
}
