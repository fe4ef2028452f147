package runner

import (
	"fmt"
	"math"

	"signal_bot/internal/models"
)

// PricingError — цена отсутствует или нулевая; сделка этого цикла
// отменяется, исполнение не начинается.
type PricingError struct {
	Symbol string
	Err    error
}

func (e *PricingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pricing %s: %v", e.Symbol, e.Err)
	}
	return fmt.Sprintf("pricing %s: price unavailable", e.Symbol)
}

func (e *PricingError) Unwrap() error { return e.Err }

// SizeOrder переводит целевой notional (USDT) в количество монет под
// ограничения LOT_SIZE. Округление — банковское (half-to-even) по
// частному qty/step, до умножения обратно на шаг: политика должна
// быть воспроизводимой между запусками.
func SizeOrder(symbol string, price float64, constraints models.SymbolConstraints, targetNotional float64) (float64, error) {
	if price <= 0 {
		return 0, &PricingError{Symbol: symbol}
	}

	qty := targetNotional / price
	if qty < constraints.MinQty {
		qty = constraints.MinQty
	}
	if constraints.StepSize > 0 {
		qty = math.RoundToEven(qty/constraints.StepSize) * constraints.StepSize
	}
	return qty, nil
}
