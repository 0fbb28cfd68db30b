package risk

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/akarmiris/riskalloc/internal/domain"
	"github.com/akarmiris/riskalloc/pkg/formulas"
)

// MaxSimulations caps the simulation count so worst-case latency stays
// predictable.
const MaxSimulations = 1_000_000

// MonteCarloParams configures one asset's simulation.
type MonteCarloParams struct {
	// Simulations is the number of single-period draws, in
	// [1, MaxSimulations].
	Simulations int

	// Confidence is the tail level, e.g. 0.95.
	Confidence float64

	// Notional is the dollar amount each sampled return is applied to:
	// one unit of the asset priced at its average close.
	Notional float64

	// Src is the asset-local random source. Nil falls back to the
	// global generator, which is fine for one-off calls but not
	// reproducible.
	Src rand.Source
}

// MonteCarloVaR estimates the dollar loss at the configured confidence by
// sampling single-period returns from Normal(average_return, volatility),
// scaling each draw by the notional, and taking the same interpolated
// lower-tail quantile as the historical estimator.
//
// A zero volatility degenerates to a point mass at the mean return, so a
// flat price history yields exactly zero.
func MonteCarloVaR(stats domain.Statistics, p MonteCarloParams) (float64, error) {
	if err := validateConfidence(p.Confidence); err != nil {
		return 0, err
	}
	if p.Simulations < 1 || p.Simulations > MaxSimulations {
		return 0, fmt.Errorf("simulation count must be in [1, %d], got %d", MaxSimulations, p.Simulations)
	}
	if stats.Volatility < 0 {
		return 0, fmt.Errorf("volatility must be non-negative, got %v", stats.Volatility)
	}

	dist := distuv.Normal{
		Mu:    stats.AverageReturn,
		Sigma: stats.Volatility,
		Src:   p.Src,
	}

	outcomes := make([]float64, p.Simulations)
	for i := range outcomes {
		outcomes[i] = p.Notional * dist.Rand()
	}
	sort.Float64s(outcomes)

	return formulas.Quantile(1-p.Confidence, outcomes), nil
}
