// Package diagnostics computes supplementary per-asset indicators for
// reports and the API. Nothing here feeds the allocator.
package diagnostics

import (
	"github.com/rs/zerolog"

	"github.com/akarmiris/riskalloc/internal/domain"
	"github.com/akarmiris/riskalloc/pkg/formulas"
)

// Indicator windows used for display diagnostics.
const (
	RSILength = 14
	SMALength = 20
)

// Report carries the indicators for one asset. Fields are nil when the
// history is too short for the window.
type Report struct {
	AssetID     string   `json:"asset_id"`
	RSI         *float64 `json:"rsi_14,omitempty"`
	SMA         *float64 `json:"sma_20,omitempty"`
	MaxDrawdown *float64 `json:"max_drawdown,omitempty"`
	SharpeRatio *float64 `json:"sharpe_ratio,omitempty"`
}

// Service computes price diagnostics.
type Service struct {
	log zerolog.Logger
}

// NewService creates a new diagnostics service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "diagnostics").Logger(),
	}
}

// Analyze validates the asset and computes every indicator its history
// supports. Short histories shrink the report instead of failing it.
func (s *Service) Analyze(asset domain.Asset) (*Report, error) {
	if err := asset.Validate(); err != nil {
		return nil, err
	}

	return &Report{
		AssetID:     asset.ID,
		RSI:         formulas.CalculateRSI(asset.Prices, RSILength),
		SMA:         formulas.CalculateSMA(asset.Prices, SMALength),
		MaxDrawdown: formulas.CalculateMaxDrawdown(asset.Prices),
		SharpeRatio: formulas.CalculateSharpeFromPrices(asset.Prices, 0),
	}, nil
}
