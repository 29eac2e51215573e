// pkg/export/postgres.go
package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/David-Botos/cocoa-report/pkg/connector"
	"github.com/David-Botos/cocoa-report/pkg/model"
)

// Export table names
const (
	TableCleanRecords = "cocoa_clean_records"
	TableCleaningLog  = "cleaned_on_ingress"
)

const (
	defaultBatchSize = 500
	execTimeout      = 30 * time.Second
)

var (
	cleanColumns = []string{"run_id", "year", "country", "area_harvested", "yield", "production"}
	auditColumns = []string{"run_id", "year", "country", "field_name", "original_value",
		"cleaning_operation", "cleaning_reason"}
)

// PostgresSink persists a run's clean records and cleaning audit
type PostgresSink struct {
	db        *sql.DB
	schema    string
	batchSize int
	logger    *zap.Logger
}

// NewPostgresSink creates a sink writing into schema over the given connection
func NewPostgresSink(conn connector.DatabaseConnector, schema string, logger *zap.Logger) *PostgresSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	if schema == "" {
		schema = "public"
	}
	return &PostgresSink{
		db:        conn.DB(),
		schema:    schema,
		batchSize: defaultBatchSize,
		logger:    logger,
	}
}

// CreateTables creates the export tables if they don't exist
func (s *PostgresSink) CreateTables(ctx context.Context) error {
	for _, stmt := range []string{
		createCleanTableSQL(s.schema),
		createAuditTableSQL(s.schema),
	} {
		execCtx, cancel := context.WithTimeout(ctx, execTimeout)
		_, err := s.db.ExecContext(execCtx, stmt)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to create export table: %w", err)
		}
	}

	s.logger.Debug("Export tables ready", zap.String("schema", s.schema))
	return nil
}

// Persist writes the clean records and cleaning operations of one run in a single transaction
func (s *PostgresSink) Persist(
	ctx context.Context,
	runID string,
	clean []model.CleanRecord,
	operations []model.CleaningOperation,
) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.NamedError("cause", err))
			}
		}
	}()

	cleanRows := make([][]interface{}, len(clean))
	for i, r := range clean {
		cleanRows[i] = []interface{}{runID, r.Year, r.Country, r.AreaHarvested, r.Yield, r.Production}
	}
	inserted, err := s.batchInsert(ctx, tx, TableCleanRecords, cleanColumns, cleanRows)
	if err != nil {
		return fmt.Errorf("failed to insert clean records: %w", err)
	}

	auditRows := make([][]interface{}, len(operations))
	for i, op := range operations {
		auditRows[i] = []interface{}{runID, op.Year, op.Country, op.Field,
			toNullableString(op.OriginalValue), op.Operation, op.Reason}
	}
	recorded, err := s.batchInsert(ctx, tx, TableCleaningLog, auditColumns, auditRows)
	if err != nil {
		return fmt.Errorf("failed to record cleaning operations: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Persisted run to PostgreSQL",
		zap.String("runId", runID),
		zap.String("schema", s.schema),
		zap.Int64("cleanRecords", inserted),
		zap.Int64("cleaningOperations", recorded))
	return nil
}

// batchInsert inserts rows in batches of s.batchSize with multi-row VALUES statements
func (s *PostgresSink) batchInsert(
	ctx context.Context,
	tx *sql.Tx,
	table string,
	columns []string,
	rows [][]interface{},
) (int64, error) {
	var total int64
	for start := 0; start < len(rows); start += s.batchSize {
		end := start + s.batchSize
		if end > len(rows) {
			end = len(rows)
		}

		query, args := buildInsert(s.schema, table, columns, rows[start:end])

		execCtx, cancel := context.WithTimeout(ctx, execTimeout)
		result, err := tx.ExecContext(execCtx, query, args...)
		cancel()
		if err != nil {
			return total, fmt.Errorf("batch insert into %s failed: %w", table, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			s.logger.Warn("Couldn't get rows affected", zap.Error(err))
			affected = int64(end - start)
		}
		total += affected
	}
	return total, nil
}

// qualifiedName returns a quoted schema.table identifier
func qualifiedName(schema, table string) string {
	return pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier(table)
}

// buildInsert builds a multi-row INSERT with positional placeholders
func buildInsert(schema, table string, columns []string, rows [][]interface{}) (string, []interface{}) {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pq.QuoteIdentifier(c)
	}

	placeholders := make([]string, len(rows))
	args := make([]interface{}, 0, len(rows)*len(columns))
	for i, row := range rows {
		rowPlaceholders := make([]string, len(columns))
		for j := range columns {
			rowPlaceholders[j] = fmt.Sprintf("$%d", i*len(columns)+j+1)
			args = append(args, row[j])
		}
		placeholders[i] = "(" + strings.Join(rowPlaceholders, ", ") + ")"
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		qualifiedName(schema, table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "))
	return query, args
}

func createCleanTableSQL(schema string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	run_id UUID NOT NULL,
	year INTEGER NOT NULL,
	country TEXT NOT NULL,
	area_harvested DOUBLE PRECISION NOT NULL,
	yield DOUBLE PRECISION NOT NULL,
	production DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, qualifiedName(schema, TableCleanRecords))
}

func createAuditTableSQL(schema string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	run_id UUID NOT NULL,
	year INTEGER NOT NULL,
	country TEXT NOT NULL,
	field_name TEXT NOT NULL,
	original_value TEXT,
	cleaning_operation TEXT NOT NULL,
	cleaning_reason TEXT NOT NULL,
	cleaned_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, qualifiedName(schema, TableCleaningLog))
}

func toNullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
