package runner

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/fx"

	"signal_bot/internal/exchange"
	"signal_bot/internal/notify"
	"signal_bot/internal/strategy"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			func(c *exchange.Client) MarketGateway { return c },
			func(c *exchange.Client) ExecutionGateway { return c },
			func(c *exchange.Client) notify.PriceSource { return c },
			New, // *Runner
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			ctx context.Context,
			r *Runner,
			client *exchange.Client,
			n notify.Notifier,
		) {
			lc.Append(fx.Hook{
				OnStart: func(startCtx context.Context) error {
					// подписанный запрос аккаунта один раз на старте:
					// проверяем ключи до первого цикла
					balances, err := client.Account(startCtx)
					if err != nil {
						return fmt.Errorf("account check: %w", err)
					}
					for _, b := range balances {
						log.Printf("[ACCOUNT] %s free=%g", b.Asset, b.Free)
					}
					n.Sendf("🤖 Бот запущен, ненулевых активов на счёте: %d", len(balances))

					go client.StreamMiniTickers(ctx, strategy.FallbackSymbols())
					go r.Run(ctx)
					return nil
				},
			})
		}),
	)
}
