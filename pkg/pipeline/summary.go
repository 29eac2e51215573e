// pkg/pipeline/summary.go
package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/cocoa-report/pkg/model"
)

// RunSummary collects the counters of one pipeline run
type RunSummary struct {
	RunID             string
	RowsLoaded        int
	RowsRetained      int
	WideRecords       int
	DuplicateKeys     int
	BlankGroups       int
	CleanRecords      int
	DroppedRecords    int
	DropReasons       map[string]int
	GhanaRecords      int
	IvoryCoastRecords int
	MinYear           int
	MaxYear           int
	HasYears          bool
	OutputPath        string
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}

// NewRunSummary initializes a summary for a run starting now
func NewRunSummary(runID string) *RunSummary {
	return &RunSummary{
		RunID:       runID,
		DropReasons: make(map[string]int),
		StartTime:   time.Now(),
	}
}

// RecordSeries stores the per-country counts and the covered year range
func (s *RunSummary) RecordSeries(ghana, ivoryCoast []model.CleanRecord) {
	s.GhanaRecords = len(ghana)
	s.IvoryCoastRecords = len(ivoryCoast)
	s.MinYear, s.MaxYear, s.HasYears = model.YearRange(ghana, ivoryCoast)
}

// Complete marks the run as complete and calculates duration
func (s *RunSummary) Complete() {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
}

// RetentionRate returns the percentage of wide records that survived cleaning
func (s *RunSummary) RetentionRate() float64 {
	if s.WideRecords == 0 {
		return 0
	}
	return float64(s.CleanRecords) / float64(s.WideRecords) * 100
}

// Log writes the summary as one structured entry
func (s *RunSummary) Log(logger *zap.Logger) {
	fields := []zap.Field{
		zap.String("runId", s.RunID),
		zap.Int("rowsLoaded", s.RowsLoaded),
		zap.Int("rowsRetained", s.RowsRetained),
		zap.Int("wideRecords", s.WideRecords),
		zap.Int("duplicateKeys", s.DuplicateKeys),
		zap.Int("blankGroups", s.BlankGroups),
		zap.Int("cleanRecords", s.CleanRecords),
		zap.Int("droppedRecords", s.DroppedRecords),
		zap.Any("dropReasons", s.DropReasons),
		zap.Int("ghanaRecords", s.GhanaRecords),
		zap.Int("ivoryCoastRecords", s.IvoryCoastRecords),
		zap.Float64("retentionRate", s.RetentionRate()),
		zap.String("output", s.OutputPath),
		zap.Duration("duration", s.Duration),
	}
	if s.HasYears {
		fields = append(fields, zap.Int("minYear", s.MinYear), zap.Int("maxYear", s.MaxYear))
	}
	logger.Info("Report run completed", fields...)
}
