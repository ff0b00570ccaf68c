// internal/raydium/quote.go
package raydium

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// computeSwap запрашивает расчет свапа у compute endpoint
func (b *Builder) computeSwap(ctx context.Context, inputMint, outputMint string, amountIn uint64, slippageBps uint16) (*SwapComputeData, error) {
	result, err := b.computeSwapEnvelope(ctx, inputMint, outputMint, amountIn, slippageBps)
	if err != nil {
		return nil, err
	}

	if result.data.PriceImpactPct > b.opts.PriceImpactMax {
		b.logger.Warn("price impact is higher than the limit",
			zap.Float64("price_impact", result.data.PriceImpactPct),
			zap.Float64("limit", b.opts.PriceImpactMax))
	}

	return &result.data, nil
}

// GetRoutes возвращает план маршрута между двумя токенами. Если маршрута не
// существует, возвращается пустой слайс без ошибки.
func (b *Builder) GetRoutes(ctx context.Context, inputMint, outputMint string, amountIn uint64) (Route, error) {
	data, err := b.computeSwap(ctx, inputMint, outputMint, amountIn, b.opts.SlippageBps)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.noRoute() {
			b.logger.Debug("no route between tokens",
				zap.String("input_mint", inputMint),
				zap.String("output_mint", outputMint))
			return Route{}, nil
		}
		return nil, fmt.Errorf("compute routes: %w", err)
	}

	return Route(data.RoutePlan), nil
}

// GetPrice возвращает курс обмена после маршрутизации для заданного объема.
// Decimal exponents берутся из метаданных пулов маршрута, поэтому результат
// содержит и сырой курс, и курс в целых токенах.
func (b *Builder) GetPrice(ctx context.Context, inputMint, outputMint string, amountIn uint64) (*Price, error) {
	data, err := b.computeSwap(ctx, inputMint, outputMint, amountIn, b.opts.SlippageBps)
	if err != nil {
		return nil, fmt.Errorf("compute swap: %w", err)
	}
	if len(data.RoutePlan) == 0 {
		return nil, fmt.Errorf("%w: no route from %s to %s",
			ErrInsufficientLiquidity, inputMint, outputMint)
	}

	inAmount, err := strconv.ParseUint(data.InputAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse input amount %q: %w", data.InputAmount, err)
	}
	outAmount, err := strconv.ParseUint(data.OutputAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse output amount %q: %w", data.OutputAmount, err)
	}

	pools, err := b.GetPoolsInfo(ctx, Route(data.RoutePlan))
	if err != nil {
		return nil, fmt.Errorf("fetch pool metadata: %w", err)
	}

	inDecimals, okIn := findMintDecimals(pools, data.InputMint)
	outDecimals, okOut := findMintDecimals(pools, data.OutputMint)
	if !okIn || !okOut {
		return nil, fmt.Errorf("mint metadata missing for pair %s/%s",
			data.InputMint, data.OutputMint)
	}

	price, err := NewPrice(
		TokenAmount{Mint: data.InputMint, Amount: inAmount, Decimals: inDecimals},
		TokenAmount{Mint: data.OutputMint, Amount: outAmount, Decimals: outDecimals},
	)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("price computed",
		zap.String("input_mint", data.InputMint),
		zap.String("output_mint", data.OutputMint),
		zap.Float64("raw", price.Raw()),
		zap.Float64("per_token", price.PerToken()))

	return price, nil
}

// findMintDecimals ищет decimal exponent токена в метаданных пулов
func findMintDecimals(pools []PoolInfo, mint string) (uint8, bool) {
	for _, pool := range pools {
		if pool.MintA.Address == mint {
			return pool.MintA.Decimals, true
		}
		if pool.MintB.Address == mint {
			return pool.MintB.Decimals, true
		}
	}
	return 0, false
}
