package progress

import "github.com/yourusername/easynatorics-api/internal/domain/entity"

// LevelConfig содержит пороги адаптивного повышения уровня
type LevelConfig struct {
	// WarmupAttempts - сколько попыток по теме нужно, прежде чем уровень начнёт пересчитываться
	WarmupAttempts int

	// AdvancedAccuracy - точность, начиная с которой тема переводится на advanced
	AdvancedAccuracy float64

	// IntermediateAccuracy - точность, начиная с которой тема переводится на intermediate
	IntermediateAccuracy float64
}

// DefaultLevelConfig возвращает пороги, с которыми проводилось исследование
func DefaultLevelConfig() *LevelConfig {
	return &LevelConfig{
		WarmupAttempts:       3,
		AdvancedAccuracy:     0.8,
		IntermediateAccuracy: 0.6,
	}
}

// TargetLevel возвращает уровень, который заслуживают накопленные счётчики.
// До окончания разминки, а также при точности ниже обоих порогов, возвращает
// пустое значение: в этом случае текущий уровень не меняется.
func (c *LevelConfig) TargetLevel(perf entity.Performance) entity.Level {
	if perf.Attempts < c.WarmupAttempts || perf.Attempts == 0 {
		return ""
	}
	accuracy := float64(perf.Correct) / float64(perf.Attempts)
	switch {
	case accuracy >= c.AdvancedAccuracy:
		return entity.LevelAdvanced
	case accuracy >= c.IntermediateAccuracy:
		return entity.LevelIntermediate
	}
	return ""
}
