// pkg/loader/snowflake.go
package loader

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/David-Botos/cocoa-report/pkg/connector"
	"github.com/David-Botos/cocoa-report/pkg/model"
)

// WarehouseSource is a connector that knows its source table
type WarehouseSource interface {
	connector.DatabaseConnector
	QualifiedTable() string
	QueryTimeout() time.Duration
}

// warehouseRow is the scan target for one source row
type warehouseRow struct {
	Area    sql.NullString `db:"AREA"`
	Item    sql.NullString `db:"ITEM"`
	Element sql.NullString `db:"ELEMENT"`
	Year    sql.NullInt64  `db:"YEAR"`
	Value   sql.NullString `db:"VALUE"`
}

// SnowflakeLoader reads raw records from a warehouse table
// The filter is pushed down so only the report's rows leave the warehouse.
type SnowflakeLoader struct {
	source    WarehouseSource
	item      string
	countries []string
	logger    *zap.Logger
}

// NewSnowflakeLoader creates a loader for the given source and filter
func NewSnowflakeLoader(source WarehouseSource, item string, countries []string, logger *zap.Logger) *SnowflakeLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnowflakeLoader{
		source:    source,
		item:      item,
		countries: countries,
		logger:    logger,
	}
}

// Load runs the source query and converts rows to raw records
func (l *SnowflakeLoader) Load(ctx context.Context) ([]model.RawRecord, error) {
	query, args := buildWarehouseQuery(l.source.QualifiedTable(), l.item, l.countries)

	if timeout := l.source.QueryTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	db := sqlx.NewDb(l.source.DB(), l.source.DriverName())
	var rows []warehouseRow
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", l.source.QualifiedTable(), err)
	}

	records := convertWarehouseRows(rows)
	l.logger.Info("Loaded warehouse table",
		zap.String("table", l.source.QualifiedTable()),
		zap.Int("rows", len(records)),
		zap.Int("skippedRows", len(rows)-len(records)))

	return records, nil
}

// buildWarehouseQuery returns the filtered source query and its arguments
func buildWarehouseQuery(table, item string, countries []string) (string, []interface{}) {
	args := make([]interface{}, 0, len(countries)+1)
	args = append(args, item)

	var sb strings.Builder
	sb.WriteString("SELECT AREA, ITEM, ELEMENT, YEAR, VALUE FROM ")
	sb.WriteString(table)
	sb.WriteString(" WHERE ITEM = ?")

	if len(countries) > 0 {
		placeholders := make([]string, len(countries))
		for i, c := range countries {
			placeholders[i] = "?"
			args = append(args, c)
		}
		sb.WriteString(" AND AREA IN (")
		sb.WriteString(strings.Join(placeholders, ", "))
		sb.WriteString(")")
	}
	sb.WriteString(" ORDER BY YEAR, AREA, ELEMENT")

	return sb.String(), args
}

// convertWarehouseRows drops rows without a year, keeping missing values as empty text
func convertWarehouseRows(rows []warehouseRow) []model.RawRecord {
	records := make([]model.RawRecord, 0, len(rows))
	for _, row := range rows {
		if !row.Year.Valid {
			continue
		}
		records = append(records, model.RawRecord{
			Area:    strings.TrimSpace(row.Area.String),
			Item:    strings.TrimSpace(row.Item.String),
			Element: strings.TrimSpace(row.Element.String),
			Year:    int(row.Year.Int64),
			Value:   strings.TrimSpace(row.Value.String),
		})
	}
	return records
}
