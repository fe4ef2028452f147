package models

import "time"

// TradeRecord — запись в журнале сделок планировщика.
// Журнал append-only: записи никогда не меняются после добавления.
type TradeRecord struct {
	Time     time.Time
	Symbol   string
	Side     Side
	Quantity float64
	OrderID  string
	Status   OrderStatus
	Source   Source
	Reason   string

	// Заполняются только если пост-трейд сверка удалась.
	Reconciled bool
	EntryPrice float64
	PnlPct     float64
}
