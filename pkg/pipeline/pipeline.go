// pkg/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/David-Botos/cocoa-report/pkg/cleaner"
	"github.com/David-Botos/cocoa-report/pkg/export"
	"github.com/David-Botos/cocoa-report/pkg/loader"
	"github.com/David-Botos/cocoa-report/pkg/model"
	"github.com/David-Botos/cocoa-report/pkg/output"
	"github.com/David-Botos/cocoa-report/pkg/render"
	"github.com/David-Botos/cocoa-report/pkg/reshape"
)

// Options controls one report run
type Options struct {
	Item       string   // Item category to keep, e.g. "Cocoa, beans"
	Countries  []string // Accepted source Area labels
	OutputPath string   // Figure output path; the extension selects the format
	XLSXPath   string   // Optional workbook export path
	Show       bool     // Open the figure after writing it
}

// Sink persists the cleaned data of a run
type Sink interface {
	CreateTables(ctx context.Context) error
	Persist(ctx context.Context, runID string, clean []model.CleanRecord, operations []model.CleaningOperation) error
}

// ReportPipeline runs load, reshape, clean, split, render and write in order
type ReportPipeline struct {
	loader   loader.Loader
	cleaner  *cleaner.DataCleaner
	renderer *render.Renderer
	writer   *output.FileWriter
	sink     Sink
	opts     Options
	logger   *zap.Logger
	runID    string
}

// NewReportPipeline creates a new report pipeline
func NewReportPipeline(
	l loader.Loader,
	c *cleaner.DataCleaner,
	opts Options,
	logger *zap.Logger,
) (*ReportPipeline, error) {
	if l == nil {
		return nil, errors.New("loader cannot be nil")
	}
	if c == nil {
		return nil, errors.New("cleaner cannot be nil")
	}
	if opts.OutputPath == "" {
		return nil, errors.New("output path cannot be empty")
	}
	if len(opts.Countries) == 0 {
		opts.Countries = model.SourceAreas()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	runID := uuid.New().String()
	logger = logger.With(zap.String("runId", runID))

	return &ReportPipeline{
		loader:   l,
		cleaner:  c.WithRunID(runID),
		renderer: render.NewRenderer(logger.Named("render")),
		writer:   output.NewFileWriter(logger.Named("output")),
		opts:     opts,
		logger:   logger,
		runID:    runID,
	}, nil
}

// WithSink enables persisting the run to a database sink
func (p *ReportPipeline) WithSink(sink Sink) *ReportPipeline {
	p.sink = sink
	return p
}

// RunID returns the identifier of this pipeline run
func (p *ReportPipeline) RunID() string {
	return p.runID
}

// Run executes the pipeline and writes the figure
// A missing input file surfaces as *loader.MissingInputError and nothing is written.
func (p *ReportPipeline) Run(ctx context.Context) (*RunSummary, error) {
	summary := NewRunSummary(p.runID)
	summary.OutputPath = p.opts.OutputPath

	raw, err := p.loader.Load(ctx)
	if err != nil {
		return nil, stageError(StageLoad, err)
	}
	summary.RowsLoaded = len(raw)

	retained := reshape.Filter(raw, p.opts.Countries, p.opts.Item)
	summary.RowsRetained = len(retained)

	pivot := reshape.Pivot(retained)
	summary.WideRecords = len(pivot.Records)
	summary.DuplicateKeys = pivot.Duplicates
	summary.BlankGroups = pivot.Blank
	if pivot.Duplicates > 0 {
		p.logger.Warn("Averaged duplicate observations",
			zap.Int("duplicateKeys", pivot.Duplicates))
	}
	p.logger.Debug("Reshaped records",
		zap.Int("retained", len(retained)),
		zap.Int("wide", len(pivot.Records)),
		zap.Strings("elements", pivot.Columns))

	wide := reshape.Normalize(pivot.Records)

	clean, operations := p.cleaner.CleanRows(wide)
	summary.CleanRecords = len(clean)
	summary.DroppedRecords = len(operations)
	summary.DropReasons = cleaner.CountByReason(operations)

	ghana, ivoryCoast := Split(clean)
	summary.RecordSeries(ghana, ivoryCoast)

	figure, err := p.renderer.Build(ghana, ivoryCoast)
	if err != nil {
		return nil, stageError(StageRender, err)
	}

	format := render.FormatFromPath(p.opts.OutputPath)
	err = p.writer.Write(p.opts.OutputPath, func(w io.Writer) error {
		return figure.Render(w, format)
	})
	if err != nil {
		return nil, stageError(StageWrite, err)
	}

	if err := p.export(ctx, clean, operations); err != nil {
		return nil, stageError(StageExport, err)
	}

	if p.opts.Show {
		p.writer.Show(p.opts.OutputPath)
	}

	summary.Complete()
	summary.Log(p.logger)
	return summary, nil
}

// export runs the optional workbook and database stages
func (p *ReportPipeline) export(ctx context.Context, clean []model.CleanRecord, operations []model.CleaningOperation) error {
	if p.opts.XLSXPath != "" {
		if err := export.WriteWorkbook(p.opts.XLSXPath, clean, operations, p.logger.Named("export")); err != nil {
			return err
		}
	}

	if p.sink != nil {
		if err := p.sink.CreateTables(ctx); err != nil {
			return err
		}
		if err := p.sink.Persist(ctx, p.runID, clean, operations); err != nil {
			return fmt.Errorf("failed to persist run %s: %w", p.runID, err)
		}
	}
	return nil
}

// Split partitions records into the Ghana and Ivory Coast series
// Order is preserved and other countries are dropped.
func Split(records []model.CleanRecord) (ghana, ivoryCoast []model.CleanRecord) {
	ghana = make([]model.CleanRecord, 0)
	ivoryCoast = make([]model.CleanRecord, 0)
	for _, r := range records {
		switch r.Country {
		case model.CountryGhana:
			ghana = append(ghana, r)
		case model.CountryIvoryCoast:
			ivoryCoast = append(ivoryCoast, r)
		}
	}
	return ghana, ivoryCoast
}
