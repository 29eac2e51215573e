// pkg/connector/postgres.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"go.uber.org/zap"

	"github.com/David-Botos/cocoa-report/pkg/config"
)

// PostgresDriver is the database/sql driver registered by pgx
const PostgresDriver = "pgx"

// PostgresConnector is the export sink connection
type PostgresConnector struct {
	db     *sql.DB
	logger *zap.Logger
	cfg    *config.PostgresConfig
}

// NewPostgresConnector connects to the export database
func NewPostgresConnector(ctx context.Context, cfg *config.PostgresConfig) (*PostgresConnector, error) {
	logger := zap.L().Named("postgres-connector")

	// Credentials stay out of the log
	logger.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("schema", cfg.Schema))

	db, err := openPool(ctx, PostgresDriver, cfg.ConnectionString(), cfg.Pool, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if cfg.StatementTimeout > 0 {
		stmt := fmt.Sprintf("SET statement_timeout = %d", cfg.StatementTimeout.Milliseconds())
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.Warn("Failed to set statement timeout", zap.Error(err))
		}
	}

	LogConnectionStats(logger, cfg.Database, db)
	return &PostgresConnector{db: db, logger: logger, cfg: cfg}, nil
}

func (c *PostgresConnector) DB() *sql.DB { return c.db }

func (c *PostgresConnector) DriverName() string { return PostgresDriver }

// Schema returns the schema export tables are written to
func (c *PostgresConnector) Schema() string {
	return c.cfg.Schema
}

// Close closes the database connection
func (c *PostgresConnector) Close() error {
	LogConnectionStats(c.logger, c.cfg.Database, c.db)
	c.logger.Debug("Closing PostgreSQL connection")
	return c.db.Close()
}
