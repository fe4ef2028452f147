package runner

import (
	"context"
	"log"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/strategy"
)

// collectWithRetry тянет снимок тикеров с ретраями и прогоняет через
// него все стратегии. Если биржа не ответила ни разу — отдаёт
// фиксированный fallback-набор: пайплайн всегда выдаёт хотя бы один
// сигнал, жертвуя качеством fallback ради живучести лупа.
func (r *Runner) collectWithRetry(ctx context.Context) []models.Signal {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		tickers, err := r.market.Tickers24h(ctx)
		if err == nil {
			return r.score(tickers)
		}
		lastErr = err
		log.Printf("[COLLECT] attempt %d/%d failed: %v", attempt, r.cfg.MaxRetries, err)

		if attempt == r.cfg.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(r.cfg.RetryBackoff()):
		}
	}

	log.Printf("[COLLECT] gateway unreachable, using fallback rotation: %v", lastErr)
	return strategy.FallbackSignals()
}

func (r *Runner) score(tickers []models.Ticker) []models.Signal {
	out := make([]models.Signal, 0, 8)
	for _, s := range r.strategies {
		sig := s.Evaluate(tickers)
		log.Printf("[SCORE] %s: %d signal(s)", s.Name(), len(sig))
		out = append(out, sig...)
	}
	return out
}
