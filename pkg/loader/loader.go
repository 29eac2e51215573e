// pkg/loader/loader.go
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/David-Botos/cocoa-report/pkg/converter"
	"github.com/David-Botos/cocoa-report/pkg/model"
)

// Required source columns
const (
	ColumnArea    = "Area"
	ColumnItem    = "Item"
	ColumnElement = "Element"
	ColumnYear    = "Year"
	ColumnValue   = "Value"
)

var requiredColumns = []string{ColumnArea, ColumnItem, ColumnElement, ColumnYear, ColumnValue}

// Loader produces the raw long-format records for one run
type Loader interface {
	Load(ctx context.Context) ([]model.RawRecord, error)
}

// CSVLoader reads raw records from a delimited file
type CSVLoader struct {
	path      string
	delimiter rune
	logger    *zap.Logger
}

// NewCSVLoader creates a loader for the given path
// A zero delimiter selects ','.
func NewCSVLoader(path string, delimiter rune, logger *zap.Logger) *CSVLoader {
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVLoader{
		path:      path,
		delimiter: delimiter,
		logger:    logger,
	}
}

// Load opens the file and parses every row
func (l *CSVLoader) Load(ctx context.Context) ([]model.RawRecord, error) {
	file, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingInputError{Path: l.path, Err: err}
		}
		return nil, fmt.Errorf("failed to open input file %s: %w", l.path, err)
	}
	defer file.Close()

	records, err := l.parse(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", l.path, err)
	}
	return records, nil
}

// parse reads the header and all data rows from r
func (l *CSVLoader) parse(ctx context.Context, r io.Reader) ([]model.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = l.delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			l.logger.Warn("Input file is empty", zap.String("path", l.path))
			return []model.RawRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	records := make([]model.RawRecord, 0)
	skipped := 0
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line+1, err)
		}
		line++

		if len(row) != len(header) {
			skipped++
			continue
		}

		year, err := converter.ToInt(row[index[ColumnYear]])
		if err != nil {
			skipped++
			continue
		}

		records = append(records, model.RawRecord{
			Area:    strings.TrimSpace(row[index[ColumnArea]]),
			Item:    strings.TrimSpace(row[index[ColumnItem]]),
			Element: strings.TrimSpace(row[index[ColumnElement]]),
			Year:    year,
			Value:   strings.TrimSpace(row[index[ColumnValue]]),
		})
	}

	l.logger.Info("Loaded input table",
		zap.String("path", l.path),
		zap.Int("rows", len(records)),
		zap.Int("skippedRows", skipped))

	return records, nil
}

// columnIndex maps required column names to their header position
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("input is missing required columns: %s", strings.Join(missing, ", "))
	}

	return index, nil
}
