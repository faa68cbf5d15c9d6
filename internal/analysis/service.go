package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"carbon-intel/campaign-portal/campaign-portal-backend/internal/factors"
)

// Service orchestrates analysis runs and keeps finished results available
// for retrieval and export until they expire.
type Service struct {
	engine *Engine
	tables *factors.Tables
	store  *Store
	logger *zap.Logger
}

// NewService creates an analysis service.
func NewService(tables *factors.Tables, opts Options, store *Store, logger *zap.Logger) *Service {
	return &Service{
		engine: NewEngine(tables, opts),
		tables: tables,
		store:  store,
		logger: logger,
	}
}

// Analyze runs the pipeline over one ingested dataset and stores the result.
func (s *Service) Analyze(ctx context.Context, fileName string, dataset *Dataset) (*Result, error) {
	start := time.Now()

	result, err := s.engine.Run(dataset)
	if err != nil {
		s.logger.Warn("Analysis failed",
			zap.String("file", fileName),
			zap.Int("rows", len(dataset.Rows)),
			zap.Error(err))
		return nil, err
	}

	result.ID = uuid.New()
	result.CreatedAt = time.Now().UTC()
	result.FileName = fileName

	if result.Summary.DetailDelta != 0 {
		// Detail rows rarely sum exactly to the platform-reported total
		// (rounding, partial exports). The TOTAL row wins; the delta is
		// logged for reconciliation.
		s.logger.Warn("Detail rows do not reconcile with TOTAL row",
			zap.String("analysis_id", result.ID.String()),
			zap.Int64("reported_impressions", result.Summary.ReportedImpressions),
			zap.Int64("delta", result.Summary.DetailDelta))
	}

	s.logger.Info("Analysis complete",
		zap.String("analysis_id", result.ID.String()),
		zap.String("file", fileName),
		zap.Int("rows_analyzed", result.Summary.RowsAnalyzed),
		zap.Int("rows_excluded", result.Summary.RowsExcluded),
		zap.Float64("global_gco2pm", result.Summary.GlobalGCO2PM),
		zap.String("benchmark", result.Summary.Benchmark),
		zap.Duration("elapsed", time.Since(start)))

	if s.store != nil {
		s.store.Put(result)
	}
	return result, nil
}

// Get returns a stored analysis result.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Result, bool) {
	if s.store == nil {
		return nil, false
	}
	return s.store.Get(id)
}

// Tables exposes the active factor configuration.
func (s *Service) Tables() *factors.Tables {
	return s.tables
}
