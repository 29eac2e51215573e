// pkg/cleaner/cleaner.go
package cleaner

import (
	"errors"

	"go.uber.org/zap"

	"github.com/David-Botos/cocoa-report/pkg/converter"
	"github.com/David-Botos/cocoa-report/pkg/model"
)

// RequiredMetrics are the element columns every clean record must carry, in report order
var RequiredMetrics = []string{
	model.ElementAreaHarvested,
	model.ElementYield,
	model.ElementProduction,
}

// DataCleaner selects the report fields and drops incomplete records
type DataCleaner struct {
	converter *converter.TypeConverter
	logger    *zap.Logger
	runID     string
}

// NewDataCleaner creates a new DataCleaner instance
func NewDataCleaner(typeConverter *converter.TypeConverter, logger *zap.Logger) (*DataCleaner, error) {
	if typeConverter == nil {
		return nil, errors.New("type converter cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &DataCleaner{
		converter: typeConverter,
		logger:    logger,
	}, nil
}

// WithRunID tags recorded cleaning operations with the pipeline run
func (c *DataCleaner) WithRunID(runID string) *DataCleaner {
	c.runID = runID
	return c
}

// CleanRows cleans a batch of wide records
// It returns the clean records in input order and one operation per dropped record.
func (c *DataCleaner) CleanRows(rows []model.WideRecord) ([]model.CleanRecord, []model.CleaningOperation) {
	cleaned := make([]model.CleanRecord, 0, len(rows))
	var operations []model.CleaningOperation

	for _, row := range rows {
		record, op := c.cleanSingleRow(row)
		if op != nil {
			operations = append(operations, *op)
			c.logger.Debug("Dropped record",
				zap.Int("year", op.Year),
				zap.String("country", op.Country),
				zap.String("field", op.Field),
				zap.String("reason", op.Reason))
			continue
		}
		cleaned = append(cleaned, record)
	}

	c.logger.Info("Cleaned records",
		zap.Int("input", len(rows)),
		zap.Int("clean", len(cleaned)),
		zap.Int("dropped", len(operations)))

	return cleaned, operations
}

// cleanSingleRow selects and coerces the required fields of one record
// Missing fields are checked before coercion; a coercion failure is then treated as missing.
func (c *DataCleaner) cleanSingleRow(row model.WideRecord) (model.CleanRecord, *model.CleaningOperation) {
	if row.Country == "" {
		return model.CleanRecord{}, dropMissing(c.runID, row, "Country")
	}

	raw := make([]string, len(RequiredMetrics))
	for i, metric := range RequiredMetrics {
		v, ok := row.Value(metric)
		if !ok || c.converter.IsNull(v) {
			return model.CleanRecord{}, dropMissing(c.runID, row, metric)
		}
		raw[i] = v
	}

	values := make([]float64, len(RequiredMetrics))
	for i, metric := range RequiredMetrics {
		f, err := c.converter.Float(raw[i])
		if err != nil {
			return model.CleanRecord{}, dropNonNumeric(c.runID, row, metric, raw[i])
		}
		values[i] = f
	}

	return model.CleanRecord{
		Year:          row.Year,
		Country:       row.Country,
		AreaHarvested: values[0],
		Yield:         values[1],
		Production:    values[2],
	}, nil
}
