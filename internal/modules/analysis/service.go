// Package analysis runs the price-to-allocation pipeline: per-asset
// statistics and risk estimates computed in parallel, joined once, then
// weighted into a capital plan. Completed runs can be archived and replayed.
package analysis

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/akarmiris/riskalloc/internal/domain"
	"github.com/akarmiris/riskalloc/internal/modules/allocation"
	"github.com/akarmiris/riskalloc/internal/modules/risk"
	"github.com/akarmiris/riskalloc/pkg/formulas"
)

// Service executes analysis runs.
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates a new analysis service. The repository may be nil when
// runs should not be archived.
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "analysis").Logger(),
	}
}

// Run executes the pipeline over the assets: input validation, per-asset
// statistics and risk estimates in parallel, then the allocation. Result
// order always matches input order. Assets with too little history are
// flagged and excluded from the weighting; the run fails only when every
// asset fails.
func (s *Service) Run(assets []domain.Asset, params Params) (*Run, error) {
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateAssets(assets); err != nil {
		return nil, err
	}

	if params.Seed == nil {
		seed := rand.Uint64()
		params.Seed = &seed
	}

	results, failed, err := s.computeAll(assets, params)
	if err != nil {
		return nil, err
	}
	if failed == len(assets) {
		return nil, domain.ErrAllAssetsFailed
	}

	candidates := make([]allocation.Candidate, 0, len(assets)-failed)
	for _, result := range results {
		if result.Failed() {
			continue
		}
		candidates = append(candidates, allocation.Candidate{
			AssetID:       result.AssetID,
			MonteCarloVaR: result.Risk.MonteCarloVaR,
		})
	}

	allocations, err := allocation.Allocate(candidates, params.PortfolioWorth)
	if err != nil {
		return nil, err
	}

	next := 0
	for i := range results {
		if results[i].Failed() {
			continue
		}
		results[i].Weight = allocations[next].Weight
		results[i].Dollar = allocations[next].Dollar
		next++
	}

	run := &Run{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		Params:      params,
		Results:     results,
		FailedCount: failed,
	}

	s.log.Info().
		Str("run_id", run.ID).
		Int("assets", len(assets)).
		Int("failed", failed).
		Float64("portfolio_worth", params.PortfolioWorth).
		Msg("Analysis run completed")

	return run, nil
}

// Execute runs the pipeline and archives the completed run.
func (s *Service) Execute(source string, assets []domain.Asset, params Params) (*Run, error) {
	run, err := s.Run(assets, params)
	if err != nil {
		return nil, err
	}
	run.Source = source

	if s.repo != nil {
		if err := s.repo.SaveRun(run); err != nil {
			return nil, fmt.Errorf("failed to archive run: %w", err)
		}
	}

	return run, nil
}

type assetOutcome struct {
	index int
	stats *domain.Statistics
	risk  *domain.RiskEstimate
	err   error
}

// computeAll fans out one worker per asset and joins before returning. Each
// asset draws from its own generator keyed by (seed, position), so results
// do not depend on goroutine scheduling.
func (s *Service) computeAll(assets []domain.Asset, params Params) ([]domain.AllocationResult, int, error) {
	outcomes := make(chan assetOutcome, len(assets))
	for i := range assets {
		go func(index int, asset domain.Asset) {
			src := rand.NewPCG(*params.Seed, uint64(index))
			stats, estimate, err := computeAsset(asset, params, src)
			outcomes <- assetOutcome{index: index, stats: stats, risk: estimate, err: err}
		}(i, assets[i])
	}

	results := make([]domain.AllocationResult, len(assets))
	failed := 0
	for range assets {
		outcome := <-outcomes
		result := domain.AllocationResult{AssetID: assets[outcome.index].ID}
		if outcome.err != nil {
			var insufficient *domain.InsufficientDataError
			if !errors.As(outcome.err, &insufficient) {
				return nil, 0, fmt.Errorf("asset %s: %w", assets[outcome.index].ID, outcome.err)
			}
			failed++
			result.Failure = outcome.err.Error()
			s.log.Warn().
				Str("asset", assets[outcome.index].ID).
				Str("reason", result.Failure).
				Msg("Asset excluded from allocation")
		} else {
			result.Stats = outcome.stats
			result.Risk = outcome.risk
		}
		results[outcome.index] = result
	}

	return results, failed, nil
}

// computeAsset builds the statistics and both risk estimates for one asset.
// Volatility uses the sample standard deviation, so at least two returns
// (three prices) are required.
func computeAsset(asset domain.Asset, params Params, src rand.Source) (*domain.Statistics, *domain.RiskEstimate, error) {
	returns := formulas.CalculateReturns(asset.Prices)
	if len(returns) < 2 {
		return nil, nil, &domain.InsufficientDataError{AssetID: asset.ID, What: "returns", Required: 2, Got: len(returns)}
	}

	stats := &domain.Statistics{
		AverageClose:  formulas.Mean(asset.Prices),
		AverageReturn: formulas.Mean(returns),
		Volatility:    formulas.StdDev(returns),
	}

	historical, err := risk.HistoricalVaR(returns, params.Confidence)
	if err != nil {
		return nil, nil, fmt.Errorf("historical var: %w", err)
	}

	monteCarlo, err := risk.MonteCarloVaR(*stats, risk.MonteCarloParams{
		Simulations: params.Simulations,
		Confidence:  params.Confidence,
		Notional:    stats.AverageClose,
		Src:         src,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("monte carlo var: %w", err)
	}

	return stats, &domain.RiskEstimate{HistoricalVaR: historical, MonteCarloVaR: monteCarlo}, nil
}
