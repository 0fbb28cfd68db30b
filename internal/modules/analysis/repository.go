package analysis

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/akarmiris/riskalloc/internal/domain"
)

// ErrRunNotFound is returned when the archive has no run with the given id.
var ErrRunNotFound = errors.New("run not found")

// timeLayout keeps the fractional seconds at a fixed width so lexicographic
// order on the created_at column matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Repository archives completed runs in the local SQLite database.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new run archive repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "analysis").Logger(),
	}
}

// SaveRun stores a completed run and its per-asset results atomically.
func (r *Repository) SaveRun(run *Run) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Seeds are stored as text: they are uint64 and may not fit int64.
	var seed interface{}
	if run.Params.Seed != nil {
		seed = strconv.FormatUint(*run.Params.Seed, 10)
	}

	_, err = tx.Exec(
		`INSERT INTO runs (id, created_at, source, portfolio_worth, confidence, simulations, seed, asset_count, failed_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(timeLayout), run.Source,
		run.Params.PortfolioWorth, run.Params.Confidence, run.Params.Simulations,
		seed, len(run.Results), run.FailedCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, result := range run.Results {
		var avgClose, avgReturn, volatility, historical, monteCarlo interface{}
		if result.Stats != nil {
			avgClose = result.Stats.AverageClose
			avgReturn = result.Stats.AverageReturn
			volatility = result.Stats.Volatility
		}
		if result.Risk != nil {
			historical = result.Risk.HistoricalVaR
			monteCarlo = result.Risk.MonteCarloVaR
		}

		_, err = tx.Exec(
			`INSERT INTO run_results (run_id, position, asset_id, average_close, average_return, volatility, historical_var, monte_carlo_var, weight, dollar_allocation, failure)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, result.AssetID,
			avgClose, avgReturn, volatility, historical, monteCarlo,
			result.Weight, result.Dollar, result.Failure,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.log.Debug().
		Str("run_id", run.ID).
		Int("results", len(run.Results)).
		Msg("Run archived")

	return nil
}

// GetRun loads an archived run with its results in their original order.
func (r *Repository) GetRun(id string) (*Run, error) {
	row := r.db.QueryRow(
		`SELECT id, created_at, source, portfolio_worth, confidence, simulations, seed, failed_count
		 FROM runs WHERE id = ?`, id)

	var (
		run       Run
		createdAt string
		seed      sql.NullString
	)
	err := row.Scan(&run.ID, &createdAt, &run.Source,
		&run.Params.PortfolioWorth, &run.Params.Confidence, &run.Params.Simulations,
		&seed, &run.FailedCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	run.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
	}

	if seed.Valid {
		value, err := strconv.ParseUint(seed.String, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run seed: %w", err)
		}
		run.Params.Seed = &value
	}

	rows, err := r.db.Query(
		`SELECT asset_id, average_close, average_return, volatility, historical_var, monte_carlo_var, weight, dollar_allocation, failure
		 FROM run_results WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			result                                              domain.AllocationResult
			avgClose, avgReturn, volatility, historical, varSim sql.NullFloat64
		)
		err := rows.Scan(&result.AssetID, &avgClose, &avgReturn, &volatility,
			&historical, &varSim, &result.Weight, &result.Dollar, &result.Failure)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run result: %w", err)
		}

		if avgClose.Valid {
			result.Stats = &domain.Statistics{
				AverageClose:  avgClose.Float64,
				AverageReturn: avgReturn.Float64,
				Volatility:    volatility.Float64,
			}
		}
		if historical.Valid {
			result.Risk = &domain.RiskEstimate{
				HistoricalVaR: historical.Float64,
				MonteCarloVaR: varSim.Float64,
			}
		}

		run.Results = append(run.Results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run results: %w", err)
	}

	return &run, nil
}

// ListRuns returns archived run summaries, newest first.
func (r *Repository) ListRuns(limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, created_at, source, portfolio_worth, confidence, simulations, asset_count, failed_count
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			summary   Summary
			createdAt string
		)
		err := rows.Scan(&summary.ID, &createdAt, &summary.Source,
			&summary.PortfolioWorth, &summary.Confidence, &summary.Simulations,
			&summary.AssetCount, &summary.FailedCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}

		summary.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
		}

		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return summaries, nil
}

// DeleteRun removes an archived run; its results go with it via the
// foreign key cascade.
func (r *Repository) DeleteRun(id string) error {
	result, err := r.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrRunNotFound
	}

	r.log.Debug().Str("run_id", id).Msg("Run deleted")
	return nil
}

// PruneRuns deletes all but the newest keep runs and reports how many went.
func (r *Repository) PruneRuns(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	result, err := r.db.Exec(
		`DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY created_at DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}

	pruned, _ := result.RowsAffected()
	if pruned > 0 {
		r.log.Info().Int64("pruned", pruned).Int("keep", keep).Msg("Old runs pruned")
	}

	return pruned, nil
}
