package models

type OrderStatus string

const (
	OrderStatusNew      OrderStatus = "NEW"
	OrderStatusFilled   OrderStatus = "FILLED"
	OrderStatusRejected OrderStatus = "REJECTED"
)

// SymbolConstraints — лимиты точности количества (LOT_SIZE) по инструменту.
// Исполняемое количество обязано быть >= MinQty и кратно StepSize.
type SymbolConstraints struct {
	MinQty   float64
	StepSize float64
}

// DefaultConstraints — явная fallback-политика, когда биржа не отдала фильтры.
var DefaultConstraints = SymbolConstraints{MinQty: 0.001, StepSize: 0.001}

// Order — ответ биржи на размещение ордера. Иммутабелен после возврата.
type Order struct {
	Symbol      string
	Side        Side
	Quantity    float64
	OrderID     string
	Status      OrderStatus
	ExecutedQty float64
}

// Reconciliation — пост-трейд сверка: фактическая цена входа по истории
// сделок и нереализованный P&L относительно последней котировки.
type Reconciliation struct {
	EntryPrice float64
	LastPrice  float64
	PnlPct     float64
}
