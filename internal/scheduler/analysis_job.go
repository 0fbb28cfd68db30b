package scheduler

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/akarmiris/riskalloc/internal/domain"
	"github.com/akarmiris/riskalloc/internal/ingest"
	"github.com/akarmiris/riskalloc/internal/modules/analysis"
)

// AnalysisJob runs the full pipeline against the configured watchlist
// and archives the result
type AnalysisJob struct {
	log          zerolog.Logger
	service      *analysis.Service
	watchlistCSV string
	historyDir   string
	params       analysis.Params
}

// AnalysisJobConfig holds configuration for the scheduled analysis job
type AnalysisJobConfig struct {
	Log          zerolog.Logger
	Service      *analysis.Service
	WatchlistCSV string
	HistoryDir   string
	Params       analysis.Params
}

// NewAnalysisJob creates a new scheduled analysis job
func NewAnalysisJob(cfg AnalysisJobConfig) *AnalysisJob {
	return &AnalysisJob{
		log:          cfg.Log.With().Str("job", "analysis").Logger(),
		service:      cfg.Service,
		watchlistCSV: cfg.WatchlistCSV,
		historyDir:   cfg.HistoryDir,
		params:       cfg.Params,
	}
}

// Name returns the job name
func (j *AnalysisJob) Name() string {
	return "analysis"
}

// Run loads the watchlist, runs the pipeline and archives the run
func (j *AnalysisJob) Run() error {
	startTime := time.Now()

	source, assets, err := j.loadWatchlist()
	if err != nil {
		return fmt.Errorf("failed to load watchlist: %w", err)
	}

	j.log.Info().
		Str("source", source).
		Int("assets", len(assets)).
		Msg("Starting scheduled analysis")

	run, err := j.service.Execute(source, assets, j.params)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	j.log.Info().
		Str("run_id", run.ID).
		Int("assets", len(run.Results)).
		Int("failed", run.FailedCount).
		Dur("duration", time.Since(startTime)).
		Msg("Scheduled analysis completed")

	return nil
}

// loadWatchlist reads assets from whichever source is configured.
// The CSV watchlist wins when both are set.
func (j *AnalysisJob) loadWatchlist() (string, []domain.Asset, error) {
	if j.watchlistCSV != "" {
		assets, err := ingest.LoadCSV(j.watchlistCSV)
		return "csv:" + j.watchlistCSV, assets, err
	}

	if j.historyDir != "" {
		assets, err := ingest.LoadHistoryDir(j.historyDir)
		return "history:" + j.historyDir, assets, err
	}

	return "", nil, fmt.Errorf("no watchlist source configured")
}
