package exchange

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"signal_bot/internal/models"
)

// Execute — единственная мутирующая операция ядра.
// Шаги: валидация символа → рыночный ордер → короткая пауза, чтобы
// леджер площадки устаканился → цена входа из истории сделок →
// нереализованный P&L против текущей котировки.
// Неудачная сверка не фатальна: ордер возвращается с recon == nil.
func (c *Client) Execute(ctx context.Context, symbol string, side models.Side, quantity float64) (models.Order, *models.Reconciliation, error) {
	if err := c.validateSymbol(ctx, symbol); err != nil {
		// до ордера не дошли — side effects нет
		return models.Order{}, nil, err
	}

	order, err := c.CreateOrder(ctx, symbol, side, quantity)
	if err != nil {
		return models.Order{}, nil, err
	}
	log.Printf("[ORDER] %s %s qty=%s id=%s status=%s",
		symbol, side, formatQty(quantity), order.OrderID, order.Status)

	recon, err := c.reconcile(ctx, symbol, side)
	if err != nil {
		// ReconciliationWarning: ордер валиден, P&L просто не посчитали
		log.Printf("[RECON] warn %s: %v", symbol, err)
		return order, nil, nil
	}
	return order, recon, nil
}

func (c *Client) validateSymbol(ctx context.Context, symbol string) error {
	params := url.Values{}
	params.Set("symbol", symbol)
	if _, err := c.doPublic(ctx, "/api/v3/ticker/price", params); err != nil {
		if err == ErrSymbolNotFound {
			return ErrSymbolNotFound
		}
		if verr, ok := err.(*VenueError); ok && verr.HTTPStatus < 500 {
			// 4xx на ticker/price для спота означает неизвестный символ;
			// 5xx — это лежащая площадка, а не плохой инструмент
			return ErrSymbolNotFound
		}
		return gatewayErr("validate symbol", err)
	}
	return nil
}

func (c *Client) reconcile(ctx context.Context, symbol string, side models.Side) (*models.Reconciliation, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.settleDelay):
	}

	fills, err := c.MyTrades(ctx, symbol, 10)
	if err != nil {
		return nil, err
	}
	if len(fills) == 0 {
		return nil, fmt.Errorf("no fills for %s", symbol)
	}

	// последняя по времени сделка — наш вход
	entry := fills[0]
	for _, f := range fills[1:] {
		if f.Time > entry.Time {
			entry = f
		}
	}
	if entry.Price <= 0 {
		return nil, fmt.Errorf("fill price <= 0")
	}

	last, err := c.LastPrice(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("last price: %w", err)
	}

	pnl := (last - entry.Price) / entry.Price * 100
	if side == models.SideSell {
		// для шорта направление прибыли обратное
		pnl = (entry.Price - last) / entry.Price * 100
	}

	return &models.Reconciliation{
		EntryPrice: entry.Price,
		LastPrice:  last,
		PnlPct:     pnl,
	}, nil
}

func formatQty(q float64) string {
	return fmt.Sprintf("%.8f", q)
}
