package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/akarmiris/riskalloc/internal/domain"
	"github.com/akarmiris/riskalloc/internal/modules/risk"
)

// Defaults applied when a request leaves the corresponding knob unset.
const (
	DefaultConfidence  = 0.95
	DefaultSimulations = 1000
)

// Params are the run-level knobs of the pipeline.
type Params struct {
	PortfolioWorth float64 `json:"portfolio_worth"`
	Confidence     float64 `json:"confidence"`
	Simulations    int     `json:"simulations"`

	// Seed fixes the Monte Carlo streams. When nil a random seed is drawn
	// and recorded on the run, so every archived run can be replayed.
	Seed *uint64 `json:"seed,omitempty"`
}

// withDefaults fills unset knobs with the documented defaults.
func (p Params) withDefaults() Params {
	if p.Confidence == 0 {
		p.Confidence = DefaultConfidence
	}
	if p.Simulations == 0 {
		p.Simulations = DefaultSimulations
	}
	return p
}

// validate rejects bad parameter combinations before any computation starts.
func (p Params) validate() error {
	if p.PortfolioWorth <= 0 || math.IsNaN(p.PortfolioWorth) || math.IsInf(p.PortfolioWorth, 0) {
		return domain.ErrInvalidPortfolioWorth
	}
	if p.Confidence <= 0 || p.Confidence >= 1 {
		return fmt.Errorf("confidence must be in (0, 1), got %v", p.Confidence)
	}
	if p.Simulations < 1 || p.Simulations > risk.MaxSimulations {
		return fmt.Errorf("simulations must be between 1 and %d, got %d", risk.MaxSimulations, p.Simulations)
	}
	return nil
}

// Run is one completed analysis: the parameters that produced it plus the
// per-asset results in input order.
type Run struct {
	ID          string                    `json:"id"`
	CreatedAt   time.Time                 `json:"created_at"`
	Source      string                    `json:"source,omitempty"`
	Params      Params                    `json:"params"`
	Results     []domain.AllocationResult `json:"results"`
	FailedCount int                       `json:"failed_count"`
}

// Summary is the list-view projection of an archived run.
type Summary struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Source         string    `json:"source,omitempty"`
	PortfolioWorth float64   `json:"portfolio_worth"`
	Confidence     float64   `json:"confidence"`
	Simulations    int       `json:"simulations"`
	AssetCount     int       `json:"asset_count"`
	FailedCount    int       `json:"failed_count"`
}
