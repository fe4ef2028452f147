package models

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Source — стратегия, породившая сигнал.
type Source string

const (
	SourceVolumeMomentum Source = "volume_momentum"
	SourceTopGainer      Source = "top_gainer"
	SourceOversoldBounce Source = "oversold_bounce"
	SourceFallback       Source = "fallback"
)

// Signal — скоринговый кандидат на сделку от одной стратегии.
// После создания read-only.
type Signal struct {
	Symbol     string
	Source     Source
	Side       Side
	Confidence float64 // [0,1]
	Score      float64 // >= 0, сравним только для ранжирования
	Reason     string
}

// RankedSignal — то, что остаётся после дедупликации по символу:
// не больше одной записи на символ, с максимальным Score.
// Source и Reason тянем дальше ради журнала сделок.
type RankedSignal struct {
	Symbol     string
	Side       Side
	Score      float64
	Confidence float64
	Source     Source
	Reason     string
}
