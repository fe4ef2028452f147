package strategy

import (
	"github.com/spf13/viper"
)

// Params — тюнинг трёх стратегий из configs/strategies.yaml.
// Файл опционален: без него работаем на дефолтах.
type Params struct {
	LiquidityFloor float64

	VolumeTopN      int
	VolumeMinChange float64
	VolumeMax       int

	GainerTopN      int
	GainerMinChange float64
	GainerMax       int

	BounceBottomN   int
	BounceMaxChange float64
	BounceMinVolume float64
	BounceMax       int
}

func DefaultParams() Params {
	return Params{
		LiquidityFloor: 100_000,

		VolumeTopN:      10,
		VolumeMinChange: 2.0,
		VolumeMax:       3,

		GainerTopN:      5,
		GainerMinChange: 4.0,
		GainerMax:       2,

		BounceBottomN:   5,
		BounceMaxChange: -5.0,
		BounceMinVolume: 500_000,
		BounceMax:       2,
	}
}

func LoadParams() Params {
	p := DefaultParams()

	v := viper.New()
	v.SetConfigName("strategies")
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// нет файла — не ошибка
		return p
	}

	if v.IsSet("liquidity_floor") {
		p.LiquidityFloor = v.GetFloat64("liquidity_floor")
	}

	if sub := v.Sub("volume_momentum"); sub != nil {
		sub.SetDefault("top_n", p.VolumeTopN)
		sub.SetDefault("min_change_pct", p.VolumeMinChange)
		sub.SetDefault("max_signals", p.VolumeMax)
		p.VolumeTopN = sub.GetInt("top_n")
		p.VolumeMinChange = sub.GetFloat64("min_change_pct")
		p.VolumeMax = sub.GetInt("max_signals")
	}

	if sub := v.Sub("top_gainer"); sub != nil {
		sub.SetDefault("top_n", p.GainerTopN)
		sub.SetDefault("min_change_pct", p.GainerMinChange)
		sub.SetDefault("max_signals", p.GainerMax)
		p.GainerTopN = sub.GetInt("top_n")
		p.GainerMinChange = sub.GetFloat64("min_change_pct")
		p.GainerMax = sub.GetInt("max_signals")
	}

	if sub := v.Sub("oversold_bounce"); sub != nil {
		sub.SetDefault("bottom_n", p.BounceBottomN)
		sub.SetDefault("max_change_pct", p.BounceMaxChange)
		sub.SetDefault("min_volume", p.BounceMinVolume)
		sub.SetDefault("max_signals", p.BounceMax)
		p.BounceBottomN = sub.GetInt("bottom_n")
		p.BounceMaxChange = sub.GetFloat64("max_change_pct")
		p.BounceMinVolume = sub.GetFloat64("min_volume")
		p.BounceMax = sub.GetInt("max_signals")
	}

	return p
}
