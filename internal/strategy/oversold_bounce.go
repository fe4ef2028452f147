package strategy

import (
	"fmt"
	"math"

	"signal_bot/internal/models"
)

// OversoldBounce: сильное падение (< -5%) на большом объёме — ставка на
// отскок. Confidence фиксированная: стратегия заведомо спекулятивная.
type OversoldBounce struct {
	p Params
}

func NewOversoldBounce(p Params) *OversoldBounce { return &OversoldBounce{p: p} }

func (s *OversoldBounce) Name() string { return string(models.SourceOversoldBounce) }

func (s *OversoldBounce) Evaluate(tickers []models.Ticker) []models.Signal {
	pool := topByChange(eligible(tickers, s.p.LiquidityFloor), s.p.BounceBottomN, true)

	signals := make([]models.Signal, 0, len(pool))
	for _, t := range pool {
		if t.ChangePct24h >= s.p.BounceMaxChange {
			continue
		}
		if t.Volume24h <= s.p.BounceMinVolume {
			continue
		}
		signals = append(signals, models.Signal{
			Symbol:     t.Symbol,
			Source:     models.SourceOversoldBounce,
			Side:       models.SideBuy,
			Confidence: 0.65,
			Score:      math.Abs(t.ChangePct24h) * t.Volume24h / 1_000_000,
			Reason:     fmt.Sprintf("oversold: %.1f%% volume=%.0f", t.ChangePct24h, t.Volume24h),
		})
	}
	return capByScore(signals, s.p.BounceMax)
}
