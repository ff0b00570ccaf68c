// internal/types/slippage.go
package types

import "math"

// MaxSlippageBps - верхняя граница допуска проскальзывания (100% в базисных пунктах)
const MaxSlippageBps = 10000

// SlippageType определяет тип политики проскальзывания
type SlippageType string

const (
	// SlippageFixed использует фиксированное значение minAmountOut
	SlippageFixed SlippageType = "fixed"
	// SlippageBps использует допуск в базисных пунктах от ожидаемого выхода
	SlippageBps SlippageType = "bps"
	// SlippageNone не использует ограничение minAmountOut
	SlippageNone SlippageType = "none"
)

// SlippageConfig конфигурирует политику проскальзывания
type SlippageConfig struct {
	// Type определяет тип политики проскальзывания
	Type SlippageType `json:"type"`
	// Value содержит значение для выбранной политики:
	// - для SlippageFixed: точное значение minAmountOut
	// - для SlippageBps: допуск в базисных пунктах (10 = 0.1%)
	// - для SlippageNone: игнорируется
	Value uint64 `json:"value"`
}

// CalculateMinAmountOut вычисляет minAmountOut на основе политики проскальзывания
func CalculateMinAmountOut(expectedAmount uint64, config SlippageConfig) uint64 {
	switch config.Type {
	case SlippageFixed:
		return config.Value
	case SlippageBps:
		return MinAmountOutBps(expectedAmount, uint16(config.Value))
	case SlippageNone:
		// Минимальное значение для прохождения валидации
		return 1
	default:
		return 1
	}
}

// MinAmountOutBps вычисляет минимальный выход для допуска в базисных пунктах.
// При 10 bps (0.1%) минимум составит 99.9% от ожидаемого выхода.
func MinAmountOutBps(expectedAmount uint64, bps uint16) uint64 {
	if bps >= MaxSlippageBps {
		return 0
	}
	multiplier := 1.0 - float64(bps)/MaxSlippageBps
	return uint64(math.Floor(float64(expectedAmount) * multiplier))
}
