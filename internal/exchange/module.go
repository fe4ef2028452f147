package exchange

import (
	"go.uber.org/fx"

	"signal_bot/internal/config"
)

func Module() fx.Option {
	return fx.Module("exchange",
		fx.Provide(
			func(cfg *config.Config) *Client {
				c := NewClient(cfg.Binance.BaseURL, cfg.Binance.WSURL)
				c.SetCreds(cfg.Binance.APIKey, cfg.Binance.APISecret)
				return c
			},
		),
	)
}
