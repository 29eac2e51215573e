// pkg/export/workbook.go
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/David-Botos/cocoa-report/pkg/model"
)

// Sheet names in the exported workbook
const (
	SheetClean   = "Clean"
	SheetDropped = "Dropped"
)

var (
	cleanHeaders   = []string{"Year", "Country", "Area harvested", "Yield", "Production"}
	droppedHeaders = []string{"Run ID", "Year", "Country", "Field", "Original Value", "Operation", "Reason"}
)

// WriteWorkbook writes the cleaned records and the cleaning audit to an .xlsx file
func WriteWorkbook(path string, clean []model.CleanRecord, drops []model.CleaningOperation, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetClean); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetDropped); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetDropped, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeHeader(f, SheetClean, cleanHeaders, headerStyle); err != nil {
		return err
	}
	for i, r := range clean {
		row := []interface{}{r.Year, r.Country, r.AreaHarvested, r.Yield, r.Production}
		if err := writeRow(f, SheetClean, i+2, row); err != nil {
			return err
		}
	}

	if err := writeHeader(f, SheetDropped, droppedHeaders, headerStyle); err != nil {
		return err
	}
	for i, op := range drops {
		original := ""
		if op.OriginalValue != nil {
			original = *op.OriginalValue
		}
		row := []interface{}{op.RunID, op.Year, op.Country, op.Field, original, op.Operation, op.Reason}
		if err := writeRow(f, SheetDropped, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	logger.Info("Wrote workbook",
		zap.String("path", path),
		zap.Int("cleanRows", len(clean)),
		zap.Int("droppedRows", len(drops)))
	return nil
}

// writeHeader writes a bold header row and widens the columns
func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := writeRow(f, sheet, 1, row); err != nil {
		return err
	}

	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet, err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	return f.SetColWidth(sheet, "A", lastCol, 18)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}
