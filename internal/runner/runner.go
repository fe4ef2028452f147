package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/opentracing/opentracing-go"

	"signal_bot/internal/config"
	"signal_bot/internal/exchange"
	"signal_bot/internal/history"
	"signal_bot/internal/models"
	"signal_bot/internal/notify"
	"signal_bot/internal/strategy"
)

// MarketGateway — read-only граница к бирже. Ретраев тут нет,
// они ответственность collectWithRetry.
type MarketGateway interface {
	Tickers24h(ctx context.Context) ([]models.Ticker, error)
	SymbolConstraints(ctx context.Context, symbol string) (models.SymbolConstraints, error)
	LastPrice(ctx context.Context, symbol string) (float64, error)
}

// ExecutionGateway — единственная мутирующая операция ядра.
type ExecutionGateway interface {
	Execute(ctx context.Context, symbol string, side models.Side, quantity float64) (models.Order, *models.Reconciliation, error)
}

// Runner гоняет цикл COLLECTING → SCORING → SELECTING → SIZING →
// EXECUTING → LOGGING → COOLDOWN. Один поток, один цикл за раз;
// журнал пишет только он.
type Runner struct {
	cfg        *config.Config
	strategies []strategy.Strategy
	market     MarketGateway
	exec       ExecutionGateway
	notifier   notify.Notifier
	journal    *history.Log
	store      history.Store
}

func New(
	cfg *config.Config,
	strategies []strategy.Strategy,
	market MarketGateway,
	exec ExecutionGateway,
	notifier notify.Notifier,
	journal *history.Log,
	store history.Store,
) *Runner {
	return &Runner{
		cfg:        cfg,
		strategies: strategies,
		market:     market,
		exec:       exec,
		notifier:   notifier,
		journal:    journal,
		store:      store,
	}
}

// Run крутит цикл до отмены контекста. Упавший цикл не валит процесс:
// логируем и продолжаем после укороченной fault-паузы. Пауза после
// тихого цикла и после сделки одна и та же — луп не ускоряется от
// результата.
func (r *Runner) Run(ctx context.Context) {
	for {
		delay := r.cfg.Cooldown()
		if err := r.runCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[CYCLE] fault: %v", err)
			delay = r.cfg.FaultDelay()
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// runCycle — граница изоляции: паника внутри итерации превращается в
// ошибку цикла.
func (r *Runner) runCycle(ctx context.Context) (err error) {
	span := opentracing.StartSpan("cycle")
	defer span.Finish()
	ctx = opentracing.ContextWithSpan(ctx, span)

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in cycle: %v", p)
		}
	}()

	return r.cycle(ctx)
}

func (r *Runner) cycle(ctx context.Context) error {
	signals := r.collectWithRetry(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	ranked := Rank(signals)
	log.Printf("[CYCLE] signals=%d ranked=%d", len(signals), len(ranked))

	span := opentracing.SpanFromContext(ctx)
	if span != nil {
		span.SetTag("signals", len(signals))
		span.SetTag("ranked", len(ranked))
	}

	best, ok := SelectBest(ranked, r.cfg.MinConfidence)
	if !ok {
		log.Printf("[SELECT] no signal above confidence gate %.2f, quiet cycle", r.cfg.MinConfidence)
		return nil
	}
	if span != nil {
		span.SetTag("selected", best.Symbol)
	}
	log.Printf("[SELECT] %s %s score=%.4f conf=%.2f source=%s (%s)",
		best.Symbol, best.Side, best.Score, best.Confidence, best.Source, best.Reason)

	price, err := r.market.LastPrice(ctx, best.Symbol)
	if err != nil {
		// PricingError: отменяем только эту сделку, цикл штатный
		log.Printf("[SIZE] %v", &PricingError{Symbol: best.Symbol, Err: err})
		return nil
	}

	constraints, err := r.market.SymbolConstraints(ctx, best.Symbol)
	if err != nil {
		// явная fallback-политика: биржа не отдала фильтры — торгуем
		// с дефолтной точностью, но говорим об этом вслух
		log.Printf("[SIZE] constraints %s: %v, using defaults", best.Symbol, err)
		constraints = models.DefaultConstraints
	}

	qty, err := SizeOrder(best.Symbol, price, constraints, r.cfg.TargetNotional)
	if err != nil {
		log.Printf("[SIZE] %v", err)
		return nil
	}
	log.Printf("[SIZE] %s price=%.6f notional=%.2f -> qty=%g (minQty=%g step=%g)",
		best.Symbol, price, r.cfg.TargetNotional, qty, constraints.MinQty, constraints.StepSize)

	order, recon, err := r.exec.Execute(ctx, best.Symbol, best.Side, qty)
	if err != nil {
		if errors.Is(err, exchange.ErrSymbolNotFound) {
			log.Printf("[EXEC] %s: symbol not tradable, skip", best.Symbol)
			return nil
		}
		var venueErr *exchange.VenueError
		if errors.As(err, &venueErr) {
			log.Printf("[EXEC] %s rejected by venue: %v", best.Symbol, venueErr)
			r.notifier.Sendf("⚠️ Ордер отклонён биржей: %s %s — %v", best.Side, best.Symbol, venueErr)
			return nil
		}
		// транспортная ошибка на единственном мутирующем вызове —
		// это уже сломанный цикл, уходим на fault-паузу
		return fmt.Errorf("execute %s: %w", best.Symbol, err)
	}

	r.record(ctx, best, order, recon)
	return nil
}

// record: журнал + best-effort персистенция + уведомление.
func (r *Runner) record(ctx context.Context, sig models.RankedSignal, order models.Order, recon *models.Reconciliation) {
	rec := models.TradeRecord{
		Time:     time.Now(),
		Symbol:   order.Symbol,
		Side:     order.Side,
		Quantity: order.Quantity,
		OrderID:  order.OrderID,
		Status:   order.Status,
		Source:   sig.Source,
		Reason:   sig.Reason,
	}
	if recon != nil {
		rec.Reconciled = true
		rec.EntryPrice = recon.EntryPrice
		rec.PnlPct = recon.PnlPct
	}
	r.journal.Append(rec)

	if err := r.store.Insert(ctx, rec); err != nil {
		log.Printf("[JOURNAL] persist failed: %v", err)
	}

	if recon != nil {
		r.notifier.Sendf("✅ %s %s qty=%g id=%s\nвход=%.6f сейчас=%.6f P&L=%.2f%%",
			order.Side, order.Symbol, order.Quantity, order.OrderID,
			recon.EntryPrice, recon.LastPrice, recon.PnlPct)
	} else {
		r.notifier.Sendf("✅ %s %s qty=%g id=%s\n⚠️ сверка P&L не удалась, ордер валиден",
			order.Side, order.Symbol, order.Quantity, order.OrderID)
	}
	log.Printf("[CYCLE] trade logged: %s %s id=%s reconciled=%v",
		order.Side, order.Symbol, order.OrderID, rec.Reconciled)
}
