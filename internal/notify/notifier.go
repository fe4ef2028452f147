package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signal_bot/internal/history"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// PriceSource — текущая котировка для команды /pnl.
type PriceSource interface {
	LastPrice(ctx context.Context, symbol string) (float64, error)
}

// Telegram — пассивный нотифайер + две команды: /trades и /pnl.
// Подтверждений нет: луп торгует сам, бот только докладывает.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
	trades *history.Log
	prices PriceSource
}

func NewTelegram(token string, chatID int64, trades *history.Log, prices PriceSource) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{
		bot:    b,
		chatID: chatID,
		trades: trades,
		prices: prices,
	}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	_, _ = t.bot.Send(tgbot.NewMessage(t.chatID, msg))
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// /trades — последние 5 сделок из журнала.
func (t *Telegram) handleTrades() {
	recent := t.trades.Recent(5)
	if len(recent) == 0 {
		t.Send("📭 Сделок ещё не было")
		return
	}

	var b strings.Builder
	b.WriteString("📈 Последние сделки:\n")
	for _, r := range recent {
		fmt.Fprintf(&b, "- %s %s %s qty=%g id=%s",
			r.Time.Format("15:04"), r.Side, r.Symbol, r.Quantity, r.OrderID)
		if r.Reconciled {
			fmt.Fprintf(&b, " entry=%.6f pnl=%.2f%%", r.EntryPrice, r.PnlPct)
		}
		b.WriteString("\n")
	}
	t.Send(b.String())
}

// /pnl — пересчёт нереализованного P&L по сверенным сделкам на текущих ценах.
func (t *Telegram) handlePnl(ctx context.Context) {
	recent := t.trades.Recent(10)

	var b strings.Builder
	n := 0
	for _, r := range recent {
		if !r.Reconciled {
			continue
		}
		last, err := t.prices.LastPrice(ctx, r.Symbol)
		if err != nil || last <= 0 {
			continue
		}
		pnl := (last - r.EntryPrice) / r.EntryPrice * 100
		if r.Side == "SELL" {
			pnl = (r.EntryPrice - last) / r.EntryPrice * 100
		}
		fmt.Fprintf(&b, "- %s %s entry=%.6f now=%.6f pnl=%.2f%%\n",
			r.Symbol, r.Side, r.EntryPrice, last, pnl)
		n++
	}
	if n == 0 {
		t.Send("📭 Нет сверенных сделок для P&L")
		return
	}
	t.Send("💹 Нереализованный P&L:\n" + b.String())
}

// Start: long-polling за командами.
func (t *Telegram) Start(ctx context.Context) error {
	if t == nil || t.bot == nil {
		return nil
	}

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-updates:
				if upd.Message == nil || upd.Message.Chat == nil ||
					upd.Message.Chat.ID != t.chatID || !upd.Message.IsCommand() {
					continue
				}
				switch upd.Message.Command() {
				case "trades":
					go t.handleTrades()
				case "pnl":
					go t.handlePnl(ctx)
				}
			}
		}
	}()
	return nil
}

func (t *Telegram) Stop() {}

// Stdout — заглушка, когда Telegram не настроен.
type Stdout struct{}

func NewStdout() *Stdout { return &Stdout{} }

func (s *Stdout) Send(msg string)                  { log.Println(msg) }
func (s *Stdout) Sendf(format string, args ...any) { log.Printf(format, args...) }
