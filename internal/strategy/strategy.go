package strategy

import (
	"sort"
	"strings"

	"signal_bot/internal/models"
)

// Strategy — чистая функция над снимком тикеров: одинаковый вход даёт
// одинаковый список сигналов, никакого I/O и общего состояния.
type Strategy interface {
	Name() string
	Evaluate(tickers []models.Ticker) []models.Signal
}

const quoteAsset = "USDT"

// eligible отбирает инструменты против стейбла с объёмом выше порога
// ликвидности. Возвращает новый слайс, вход не трогает.
func eligible(tickers []models.Ticker, liquidityFloor float64) []models.Ticker {
	out := make([]models.Ticker, 0, len(tickers))
	for _, t := range tickers {
		if !strings.HasSuffix(t.Symbol, quoteAsset) {
			continue
		}
		if t.Volume24h <= liquidityFloor {
			continue
		}
		if t.LastPrice <= 0 {
			continue
		}
		out = append(out, t)
	}
	return out
}

// topByVolume возвращает копию первых n по убыванию Volume24h.
func topByVolume(tickers []models.Ticker, n int) []models.Ticker {
	cp := append([]models.Ticker(nil), tickers...)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Volume24h > cp[j].Volume24h })
	if n < len(cp) {
		cp = cp[:n]
	}
	return cp
}

// topByChange: asc=false — лидеры роста, asc=true — лидеры падения.
func topByChange(tickers []models.Ticker, n int, asc bool) []models.Ticker {
	cp := append([]models.Ticker(nil), tickers...)
	sort.SliceStable(cp, func(i, j int) bool {
		if asc {
			return cp[i].ChangePct24h < cp[j].ChangePct24h
		}
		return cp[i].ChangePct24h > cp[j].ChangePct24h
	})
	if n < len(cp) {
		cp = cp[:n]
	}
	return cp
}

func capByScore(signals []models.Signal, n int) []models.Signal {
	sort.SliceStable(signals, func(i, j int) bool { return signals[i].Score > signals[j].Score })
	if n < len(signals) {
		signals = signals[:n]
	}
	return signals
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
