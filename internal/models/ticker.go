package models

// Ticker — срез 24h-статистики по одному инструменту.
// Снимок создаётся заново каждый цикл и дальше по пайплайну не мутируется.
type Ticker struct {
	Symbol       string
	LastPrice    float64
	Volume24h    float64
	ChangePct24h float64
}
