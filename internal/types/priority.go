// internal/types/priority.go
package types

// Priority определяет уровень приоритетной комиссии из auto-fee API
type Priority string

const (
	// PriorityMedium - средний уровень комиссии
	PriorityMedium Priority = "m"
	// PriorityHigh - высокий уровень комиссии
	PriorityHigh Priority = "h"
	// PriorityVeryHigh - максимальный уровень комиссии
	PriorityVeryHigh Priority = "vh"
)

// IsValid проверяет, что уровень известен API
func (p Priority) IsValid() bool {
	switch p {
	case PriorityMedium, PriorityHigh, PriorityVeryHigh:
		return true
	}
	return false
}

func (p Priority) String() string {
	return string(p)
}
