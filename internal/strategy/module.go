package strategy

import (
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			LoadParams,
			// порядок фиксированный: от него зависит детерминизм
			// дедупликации при равных score
			func(p Params) []Strategy {
				return []Strategy{
					NewVolumeMomentum(p),
					NewTopGainer(p),
					NewOversoldBounce(p),
				}
			},
		),
	)
}
