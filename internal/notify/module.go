package notify

import (
	"context"
	"log"

	"go.uber.org/fx"

	"signal_bot/internal/config"
	"signal_bot/internal/history"
)

func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(
			func(lc fx.Lifecycle, ctx context.Context, cfg *config.Config, trades *history.Log, prices PriceSource) (Notifier, error) {
				if cfg.Telegram.Token == "" {
					log.Println("[NOTIFY] telegram token is empty, notifications go to stdout")
					return NewStdout(), nil
				}

				tg, err := NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, trades, prices)
				if err != nil {
					return nil, err
				}
				lc.Append(fx.Hook{
					OnStart: func(_ context.Context) error {
						return tg.Start(ctx)
					},
				})
				return tg, nil
			},
		),
	)
}
