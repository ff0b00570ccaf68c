// internal/raydium/errors.go
package raydium

import (
	"errors"
	"fmt"
)

// Базовые ошибки клиента. Все ошибки методов Builder оборачивают одну из них,
// проверять следует через errors.Is.
var (
	// ErrProviderUnavailable - сетевая или серверная ошибка API, можно повторить с backoff
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrPoolNotFound - пул из маршрута больше не существует
	ErrPoolNotFound = errors.New("pool not found")
	// ErrInsufficientLiquidity - нет маршрута, удовлетворяющего запрос в пределах допуска
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	// ErrInvalidAmount - нулевое или переполняющее количество токенов
	ErrInvalidAmount = errors.New("invalid amount")
)

// APIError представляет неуспешный ответ API (envelope c success=false).
// Серверные ошибки до envelope не доходят: 5xx и сетевые сбои оборачивают
// ErrProviderUnavailable на транспортном уровне.
type APIError struct {
	ID      string
	Message string
	Status  int
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: %s (id=%s)", e.Message, e.ID)
	}
	return fmt.Sprintf("api error: status %d (id=%s)", e.Status, e.ID)
}

// noRoute определяет, означает ли ответ API отсутствие маршрута между токенами
func (e *APIError) noRoute() bool {
	switch e.Message {
	case "ROUTE_NOT_FOUND", "NO_ROUTE", "INSUFFICIENT_LIQUIDITY":
		return true
	}
	return false
}
