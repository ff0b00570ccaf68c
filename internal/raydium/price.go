// internal/raydium/price.go
package raydium

import (
	"fmt"
	"math"
)

// Максимальный поддерживаемый decimal exponent для арифметики цен
const MaxDecimals = 18

// TokenAmount - количество токена в минимальных единицах вместе с его
// decimal exponent (сколько минимальных единиц составляют целый токен)
type TokenAmount struct {
	// Mint - адрес токена
	Mint string
	// Amount - количество в минимальных единицах
	Amount uint64
	// Decimals - decimal exponent токена (USDC = 6, SOL = 9)
	Decimals uint8
}

// Validate проверяет инварианты количества
func (t TokenAmount) Validate() error {
	if t.Amount == 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	if t.Decimals > MaxDecimals {
		return fmt.Errorf("%w: decimals %d exceeds maximum %d",
			ErrInvalidAmount, t.Decimals, MaxDecimals)
	}
	return nil
}

// Whole возвращает количество в целых токенах
func (t TokenAmount) Whole() float64 {
	return float64(t.Amount) / math.Pow10(int(t.Decimals))
}

// Price - курс обмена между двумя токенами. Хранит сырые количества и
// decimal exponents обеих сторон, поэтому доступны обе интерпретации курса:
// в минимальных единицах (Raw) и в целых токенах (PerToken). Вызывающему
// не нужно самому пересчитывать масштаб.
type Price struct {
	// Input - потраченное количество входного токена
	Input TokenAmount
	// Output - полученное количество выходного токена
	Output TokenAmount
}

// NewPrice создает курс из пары количеств
func NewPrice(input, output TokenAmount) (*Price, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	if err := output.Validate(); err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	return &Price{Input: input, Output: output}, nil
}

// Raw возвращает курс в минимальных единицах: сколько минимальных единиц
// выходного токена приходится на одну минимальную единицу входного.
// При разных decimals токенов это НЕ человекочитаемая цена.
func (p *Price) Raw() float64 {
	return float64(p.Output.Amount) / float64(p.Input.Amount)
}

// PerToken возвращает курс в целых токенах: сколько целых выходных токенов
// приходится на один целый входной токен. Сырое отношение масштабируется
// на 10^(decimalsIn - decimalsOut).
func (p *Price) PerToken() float64 {
	return p.Raw() * math.Pow10(int(p.Input.Decimals)-int(p.Output.Decimals))
}

// Invert возвращает обратный курс (входной токен за выходной)
func (p *Price) Invert() *Price {
	return &Price{Input: p.Output, Output: p.Input}
}

func (p *Price) String() string {
	return fmt.Sprintf("%.12f %s per %s", p.PerToken(), p.Output.Mint, p.Input.Mint)
}
