package history

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"
)

// Store — опциональная персистенция журнала. Ядро живёт на in-memory
// Log; Store пишется best-effort и на ошибках не роняет цикл.
type Store interface {
	Insert(ctx context.Context, rec models.TradeRecord) error
}

// Noop — когда DSN не задан.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (*Noop) Insert(_ context.Context, _ models.TradeRecord) error { return nil }

// PgStore пишет записи журнала в trade_journal (см. sql/schema.sql).
type PgStore struct {
	tx *db.PgTxManager
}

func NewPgStore(tx *db.PgTxManager) *PgStore {
	return &PgStore{tx: tx}
}

// signalContext — что именно торговали и почему; уходит в JSONB.
type signalContext struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// Count — размер персистентного журнала. Согласованное чтение без
// транзакции, прямо по пулу.
func (s *PgStore) Count(ctx context.Context) (n int64, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "PgStore.Count")
		}
	}()

	err = s.tx.Conn().QueryRow(ctx, `SELECT count(*) FROM trade_journal`).Scan(&n)
	return n, err
}

func (s *PgStore) Insert(ctx context.Context, rec models.TradeRecord) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "PgStore.Insert")
		}
	}()

	payload, err := sonic.Marshal(signalContext{
		Source: string(rec.Source),
		Reason: rec.Reason,
	})
	if err != nil {
		return err
	}

	var entry, pnl interface{}
	if rec.Reconciled {
		entry, pnl = rec.EntryPrice, rec.PnlPct
	}

	return s.tx.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`INSERT INTO trade_journal (ts, symbol, side, quantity, order_id, status, entry_price, pnl_pct, context)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			rec.Time, rec.Symbol, string(rec.Side), rec.Quantity, rec.OrderID, string(rec.Status), entry, pnl, payload,
		)
		return err
	})
}
