// internal/raydium/price_test.go
package raydium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricePerToken(t *testing.T) {
	tests := []struct {
		name        string
		input       TokenAmount
		output      TokenAmount
		expectedRaw float64
		expected    float64
	}{
		{
			// 1.0 токена с 6 decimals за 2.0 токена с 9 decimals
			name:        "Different decimals 6 to 9",
			input:       TokenAmount{Mint: "tokenA", Amount: 1_000_000, Decimals: 6},
			output:      TokenAmount{Mint: "tokenB", Amount: 2_000_000_000, Decimals: 9},
			expectedRaw: 2000.0,
			expected:    2.0,
		},
		{
			name:        "Same decimals",
			input:       TokenAmount{Mint: "tokenA", Amount: 1_000_000_000, Decimals: 9},
			output:      TokenAmount{Mint: "tokenB", Amount: 150_000_000_000, Decimals: 9},
			expectedRaw: 150.0,
			expected:    150.0,
		},
		{
			// SOL (9 decimals) в USDC (6 decimals)
			name:        "Decimals 9 to 6",
			input:       TokenAmount{Mint: testSOLMint, Amount: 1_000_000_000, Decimals: 9},
			output:      TokenAmount{Mint: testUSDCMint, Amount: 150_000_000, Decimals: 6},
			expectedRaw: 0.15,
			expected:    150.0,
		},
		{
			name:        "Zero decimals both sides",
			input:       TokenAmount{Mint: "tokenA", Amount: 4, Decimals: 0},
			output:      TokenAmount{Mint: "tokenB", Amount: 10, Decimals: 0},
			expectedRaw: 2.5,
			expected:    2.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := NewPrice(tt.input, tt.output)
			require.NoError(t, err)

			assert.InDelta(t, tt.expectedRaw, price.Raw(), 1e-12, "raw price mismatch")
			assert.InDelta(t, tt.expected, price.PerToken(), 1e-12, "per-token price mismatch")
		})
	}
}

func TestPriceInvert(t *testing.T) {
	price, err := NewPrice(
		TokenAmount{Mint: "tokenA", Amount: 1_000_000, Decimals: 6},
		TokenAmount{Mint: "tokenB", Amount: 2_000_000_000, Decimals: 9},
	)
	require.NoError(t, err)

	inverted := price.Invert()
	assert.InDelta(t, 0.5, inverted.PerToken(), 1e-12)
	// Двойная инверсия возвращает исходный курс
	assert.InDelta(t, price.PerToken(), inverted.Invert().PerToken(), 1e-12)
}

func TestNewPriceValidation(t *testing.T) {
	valid := TokenAmount{Mint: "tokenA", Amount: 1_000_000, Decimals: 6}

	t.Run("Zero input amount", func(t *testing.T) {
		_, err := NewPrice(TokenAmount{Mint: "tokenA", Amount: 0, Decimals: 6}, valid)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("Zero output amount", func(t *testing.T) {
		_, err := NewPrice(valid, TokenAmount{Mint: "tokenB", Amount: 0, Decimals: 9})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("Decimals out of range", func(t *testing.T) {
		_, err := NewPrice(valid, TokenAmount{Mint: "tokenB", Amount: 1, Decimals: 19})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestTokenAmountWhole(t *testing.T) {
	amount := TokenAmount{Mint: testUSDCMint, Amount: 1_500_000, Decimals: 6}
	assert.InDelta(t, 1.5, amount.Whole(), 1e-12)
}
