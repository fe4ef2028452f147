package runner

import (
	"sort"

	"signal_bot/internal/models"
)

// Rank сводит сигналы всех стратегий к одному на символ: остаётся
// запись со строго наибольшим Score, при равенстве — первая
// встреченная. Порядок обхода входа фиксирован (слайс, не map),
// поэтому результат детерминирован. Ни один символ из входа не
// теряется.
func Rank(signals []models.Signal) []models.RankedSignal {
	idx := make(map[string]int, len(signals))
	out := make([]models.RankedSignal, 0, len(signals))

	for _, s := range signals {
		if i, ok := idx[s.Symbol]; ok {
			if s.Score > out[i].Score {
				out[i] = toRanked(s)
			}
			continue
		}
		idx[s.Symbol] = len(out)
		out = append(out, toRanked(s))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// SelectBest берёт голову ранжированного списка, если та проходит
// строгий гейт уверенности (> minConfidence). Одна сделка за цикл —
// это намеренный рейт-лимит, а не кандидат на оптимизацию.
func SelectBest(ranked []models.RankedSignal, minConfidence float64) (models.RankedSignal, bool) {
	if len(ranked) == 0 {
		return models.RankedSignal{}, false
	}
	head := ranked[0]
	if head.Confidence > minConfidence {
		return head, true
	}
	return models.RankedSignal{}, false
}

func toRanked(s models.Signal) models.RankedSignal {
	return models.RankedSignal{
		Symbol:     s.Symbol,
		Side:       s.Side,
		Score:      s.Score,
		Confidence: s.Confidence,
		Source:     s.Source,
		Reason:     s.Reason,
	}
}
