package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/David-Botos/cocoa-report/pkg/cleaner"
	"github.com/David-Botos/cocoa-report/pkg/config"
	"github.com/David-Botos/cocoa-report/pkg/converter"
	"github.com/David-Botos/cocoa-report/pkg/loader"
	"github.com/David-Botos/cocoa-report/pkg/model"
)

const sampleCSV = "Area,Item,Element,Year,Value\n" +
	"Ghana,\"Cocoa, beans\",Area harvested,2000,100\n" +
	"Ghana,\"Cocoa, beans\",Yield,2000,500\n" +
	"Ghana,\"Cocoa, beans\",Production,2000,50000\n" +
	"Ghana,Coffee,Yield,2000,900\n" +
	"Côte d'Ivoire,\"Cocoa, beans\",Area harvested,2001,2000\n" +
	"Côte d'Ivoire,\"Cocoa, beans\",Yield,2001,600\n" +
	"Côte d'Ivoire,\"Cocoa, beans\",Production,2001,120000\n" +
	"Côte d'Ivoire,\"Cocoa, beans\",Area harvested,2002,2100\n" +
	"Côte d'Ivoire,\"Cocoa, beans\",Yield,2002,\n" +
	"Côte d'Ivoire,\"Cocoa, beans\",Production,2002,126000\n" +
	"Nigeria,\"Cocoa, beans\",Yield,2000,300\n"

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, config.DefaultInputPath)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newPipeline(t *testing.T, input, outputPath string) *ReportPipeline {
	t.Helper()
	logger := zaptest.NewLogger(t)
	c, err := cleaner.NewDataCleaner(converter.NewTypeConverter(logger), logger)
	require.NoError(t, err)

	p, err := NewReportPipeline(
		loader.NewCSVLoader(input, ',', logger),
		c,
		Options{Item: config.DefaultItem, OutputPath: outputPath},
		logger,
	)
	require.NoError(t, err)
	return p
}

// recordingLoader returns fixed records
type recordingLoader struct {
	records []model.RawRecord
	err     error
}

func (l *recordingLoader) Load(context.Context) ([]model.RawRecord, error) {
	return l.records, l.err
}

type recordingSink struct {
	created   bool
	runID     string
	clean     []model.CleanRecord
	ops       []model.CleaningOperation
	persistFn func() error
}

func (s *recordingSink) CreateTables(context.Context) error {
	s.created = true
	return nil
}

func (s *recordingSink) Persist(_ context.Context, runID string, clean []model.CleanRecord, ops []model.CleaningOperation) error {
	s.runID, s.clean, s.ops = runID, clean, ops
	if s.persistFn != nil {
		return s.persistFn()
	}
	return nil
}

func TestSplit(t *testing.T) {
	records := []model.CleanRecord{
		{Year: 2000, Country: model.CountryGhana},
		{Year: 2000, Country: model.CountryIvoryCoast},
		{Year: 2000, Country: "Nigeria"},
		{Year: 2001, Country: model.CountryGhana},
	}

	ghana, ivory := Split(records)
	assert.Equal(t, []model.CleanRecord{records[0], records[3]}, ghana)
	assert.Equal(t, []model.CleanRecord{records[1]}, ivory)

	ghana, ivory = Split(nil)
	assert.Empty(t, ghana)
	assert.Empty(t, ivory)
}

func TestNewReportPipeline(t *testing.T) {
	logger := zaptest.NewLogger(t)
	c, err := cleaner.NewDataCleaner(converter.NewTypeConverter(logger), logger)
	require.NoError(t, err)

	_, err = NewReportPipeline(nil, c, Options{OutputPath: "out.pdf"}, logger)
	assert.Error(t, err)

	_, err = NewReportPipeline(&recordingLoader{}, nil, Options{OutputPath: "out.pdf"}, logger)
	assert.Error(t, err)

	_, err = NewReportPipeline(&recordingLoader{}, c, Options{}, logger)
	assert.Error(t, err)

	p, err := NewReportPipeline(&recordingLoader{}, c, Options{OutputPath: "out.pdf"}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.SourceAreas(), p.opts.Countries)
	assert.NotEmpty(t, p.RunID())
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, sampleCSV)
	out := filepath.Join(dir, config.DefaultOutputPath)

	summary, err := newPipeline(t, input, out).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 11, summary.RowsLoaded)
	assert.Equal(t, 9, summary.RowsRetained, "coffee and Nigeria rows are excluded")
	assert.Equal(t, 3, summary.WideRecords)
	assert.Equal(t, 2, summary.CleanRecords)
	assert.Equal(t, 1, summary.DroppedRecords)
	assert.Equal(t, map[string]int{model.ReasonMissingField: 1}, summary.DropReasons)
	assert.Equal(t, 1, summary.GhanaRecords)
	assert.Equal(t, 1, summary.IvoryCoastRecords)
	assert.True(t, summary.HasYears)
	assert.Equal(t, 2000, summary.MinYear)
	assert.Equal(t, 2001, summary.MaxYear)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRunSingleRecordScenario(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "Area,Item,Element,Year,Value\n"+
		"Ghana,\"Cocoa, beans\",Area harvested,2000,100\n"+
		"Ghana,\"Cocoa, beans\",Yield,2000,500\n"+
		"Ghana,\"Cocoa, beans\",Production,2000,50000\n")

	sink := &recordingSink{}
	p := newPipeline(t, input, filepath.Join(dir, "out.png")).WithSink(sink)

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, sink.created)
	assert.Equal(t, p.RunID(), sink.runID)
	assert.Equal(t, []model.CleanRecord{
		{Year: 2000, Country: model.CountryGhana, AreaHarvested: 100, Yield: 500, Production: 50000},
	}, sink.clean)
	assert.Empty(t, sink.ops)
}

func TestRunNoMatchingRows(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "Area,Item,Element,Year,Value\n"+
		"Ghana,Coffee,Yield,2000,900\n")
	out := filepath.Join(dir, "empty.pdf")

	summary, err := newPipeline(t, input, out).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.CleanRecords)
	assert.False(t, summary.HasYears)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, config.DefaultOutputPath)

	_, err := newPipeline(t, filepath.Join(dir, config.DefaultInputPath), out).Run(context.Background())
	require.Error(t, err)
	assert.True(t, loader.IsMissingInput(err))

	stage, ok := FailedStage(err)
	require.True(t, ok)
	assert.Equal(t, StageLoad, stage)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output file may be written")
}

func TestRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, sampleCSV)
	out := filepath.Join(dir, config.DefaultOutputPath)

	_, err := newPipeline(t, input, out).Run(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(out)
	require.NoError(t, err)

	_, err = newPipeline(t, input, out).Run(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(out)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second), "repeated runs must produce identical output")
}

func TestRunExports(t *testing.T) {
	dir := t.TempDir()
	logger := zaptest.NewLogger(t)
	c, err := cleaner.NewDataCleaner(converter.NewTypeConverter(logger), logger)
	require.NoError(t, err)

	xlsx := filepath.Join(dir, "cocoa.xlsx")
	records := []model.RawRecord{
		{Area: model.AreaGhana, Item: config.DefaultItem, Element: model.ElementAreaHarvested, Year: 1999, Value: "10"},
		{Area: model.AreaGhana, Item: config.DefaultItem, Element: model.ElementYield, Year: 1999, Value: "n/a"},
		{Area: model.AreaGhana, Item: config.DefaultItem, Element: model.ElementProduction, Year: 1999, Value: "1"},
	}

	sink := &recordingSink{}
	p, err := NewReportPipeline(&recordingLoader{records: records}, c, Options{
		Item:       config.DefaultItem,
		OutputPath: filepath.Join(dir, "out.svg"),
		XLSXPath:   xlsx,
	}, logger)
	require.NoError(t, err)

	_, err = p.WithSink(sink).Run(context.Background())
	require.NoError(t, err)

	assert.FileExists(t, xlsx)
	require.Len(t, sink.ops, 1)
	assert.Equal(t, p.RunID(), sink.ops[0].RunID)
	assert.Equal(t, model.ElementYield, sink.ops[0].Field)
}

func TestRunSinkFailure(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, sampleCSV)

	sinkErr := errors.New("connection reset")
	sink := &recordingSink{persistFn: func() error { return sinkErr }}

	_, err := newPipeline(t, input, filepath.Join(dir, "out.pdf")).WithSink(sink).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sinkErr)

	stage, ok := FailedStage(err)
	require.True(t, ok)
	assert.Equal(t, StageExport, stage)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "load", StageLoad.String())
	assert.Equal(t, "export", StageExport.String())
	assert.Equal(t, "unknown(9)", Stage(9).String())
}

func TestRunSummaryRetentionRate(t *testing.T) {
	s := NewRunSummary("run")
	assert.Zero(t, s.RetentionRate())

	s.WideRecords, s.CleanRecords = 4, 3
	assert.InDelta(t, 75.0, s.RetentionRate(), 1e-9)

	s.Complete()
	assert.False(t, s.EndTime.Before(s.StartTime))
}

func TestRunSkipsAllBlankGroups(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "Area,Item,Element,Year,Value\n"+
		"Ghana,\"Cocoa, beans\",Area harvested,1999,\n"+
		"Ghana,\"Cocoa, beans\",Yield,1999,\n"+
		"Ghana,\"Cocoa, beans\",Area harvested,2000,100\n"+
		"Ghana,\"Cocoa, beans\",Yield,2000,500\n"+
		"Ghana,\"Cocoa, beans\",Production,2000,50000\n")

	summary, err := newPipeline(t, input, filepath.Join(dir, "out.svg")).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.BlankGroups)
	assert.Equal(t, 1, summary.WideRecords)
	assert.Zero(t, summary.DroppedRecords, "an all-blank year is not a cleaning drop")
}
