package strategy

import (
	"fmt"

	"signal_bot/internal/models"
)

// TopGainer: из топ-5 по росту за сутки берём те, что выросли больше 4%.
// Score = сам процент роста.
type TopGainer struct {
	p Params
}

func NewTopGainer(p Params) *TopGainer { return &TopGainer{p: p} }

func (s *TopGainer) Name() string { return string(models.SourceTopGainer) }

func (s *TopGainer) Evaluate(tickers []models.Ticker) []models.Signal {
	pool := topByChange(eligible(tickers, s.p.LiquidityFloor), s.p.GainerTopN, false)

	signals := make([]models.Signal, 0, len(pool))
	for _, t := range pool {
		if t.ChangePct24h <= s.p.GainerMinChange {
			continue
		}
		signals = append(signals, models.Signal{
			Symbol:     t.Symbol,
			Source:     models.SourceTopGainer,
			Side:       models.SideBuy,
			Confidence: minf(0.85, t.ChangePct24h/15),
			Score:      t.ChangePct24h,
			Reason:     fmt.Sprintf("top gainer: %.1f%%", t.ChangePct24h),
		})
	}
	return capByScore(signals, s.p.GainerMax)
}
