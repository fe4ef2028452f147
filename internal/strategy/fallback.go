package strategy

import "signal_bot/internal/models"

// fallbackRotation — мажоры, по которым торгуем вслепую, когда биржа
// не отдала тикеры после всех ретраев. Доступность лупа важнее
// качества этих сигналов.
var fallbackRotation = []string{"BTCUSDT", "ETHUSDT", "BNBUSDT"}

// FallbackSymbols возвращает копию ротации (для прогрева WS-кэша котировок).
func FallbackSymbols() []string {
	return append([]string(nil), fallbackRotation...)
}

// FallbackSignals — фиксированный набор BUY-сигналов с confidence 0.7.
func FallbackSignals() []models.Signal {
	out := make([]models.Signal, 0, len(fallbackRotation))
	for _, sym := range fallbackRotation {
		out = append(out, models.Signal{
			Symbol:     sym,
			Source:     models.SourceFallback,
			Side:       models.SideBuy,
			Confidence: 0.7,
			Score:      0.7,
			Reason:     "gateway unreachable, major rotation",
		})
	}
	return out
}
