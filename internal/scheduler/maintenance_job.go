package scheduler

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/akarmiris/riskalloc/internal/database"
	"github.com/akarmiris/riskalloc/internal/modules/analysis"
)

// MaintenanceJob keeps the archive database healthy: it verifies
// integrity, prunes old runs and truncates the WAL
type MaintenanceJob struct {
	log        zerolog.Logger
	db         *database.DB
	repo       *analysis.Repository
	retainRuns int
}

// MaintenanceJobConfig holds configuration for the maintenance job
type MaintenanceJobConfig struct {
	Log        zerolog.Logger
	DB         *database.DB
	Repo       *analysis.Repository
	RetainRuns int
}

// NewMaintenanceJob creates a new archive maintenance job
func NewMaintenanceJob(cfg MaintenanceJobConfig) *MaintenanceJob {
	return &MaintenanceJob{
		log:        cfg.Log.With().Str("job", "maintenance").Logger(),
		db:         cfg.DB,
		repo:       cfg.Repo,
		retainRuns: cfg.RetainRuns,
	}
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "maintenance"
}

// Run executes the maintenance pass
func (j *MaintenanceJob) Run() error {
	j.log.Info().Msg("Starting archive maintenance")
	startTime := time.Now()

	// Archive corruption cannot be auto-recovered, so fail loudly
	if err := j.checkIntegrity(); err != nil {
		j.log.Error().Err(err).Msg("Archive integrity check failed")
		return err
	}

	pruned, err := j.repo.PruneRuns(j.retainRuns)
	if err != nil {
		return fmt.Errorf("failed to prune runs: %w", err)
	}

	// Truncate the WAL after pruning so deleted pages are reclaimed
	if err := j.db.Checkpoint(); err != nil {
		j.log.Warn().Err(err).Msg("WAL checkpoint failed")
	}

	j.log.Info().
		Int64("pruned", pruned).
		Dur("duration", time.Since(startTime)).
		Msg("Archive maintenance completed")

	return nil
}

// checkIntegrity runs SQLite's PRAGMA integrity_check
func (j *MaintenanceJob) checkIntegrity() error {
	var result string
	if err := j.db.Conn().QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}

	if result != "ok" {
		return fmt.Errorf("integrity check returned: %s", result)
	}

	return nil
}
