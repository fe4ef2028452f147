package strategy

import (
	"fmt"

	"signal_bot/internal/models"
)

// VolumeMomentum: из топ-10 по объёму берём те, что растут больше 2%.
// Score = volume * (1 + change/100) — объёмные лидеры с движением вверх.
type VolumeMomentum struct {
	p Params
}

func NewVolumeMomentum(p Params) *VolumeMomentum { return &VolumeMomentum{p: p} }

func (s *VolumeMomentum) Name() string { return string(models.SourceVolumeMomentum) }

func (s *VolumeMomentum) Evaluate(tickers []models.Ticker) []models.Signal {
	pool := topByVolume(eligible(tickers, s.p.LiquidityFloor), s.p.VolumeTopN)

	signals := make([]models.Signal, 0, len(pool))
	for _, t := range pool {
		if t.ChangePct24h <= s.p.VolumeMinChange {
			continue
		}
		signals = append(signals, models.Signal{
			Symbol:     t.Symbol,
			Source:     models.SourceVolumeMomentum,
			Side:       models.SideBuy,
			Confidence: minf(0.8, t.ChangePct24h/12+0.4),
			Score:      t.Volume24h * (1 + t.ChangePct24h/100),
			Reason:     fmt.Sprintf("volume=%.0f change=%.1f%%", t.Volume24h, t.ChangePct24h),
		})
	}
	return capByScore(signals, s.p.VolumeMax)
}
