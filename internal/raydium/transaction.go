// internal/raydium/transaction.go
package raydium

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/raydium-swap/internal/types"
)

const txVersionV0 = "V0"

// swapTransactionPayload - тело POST запроса к transaction endpoint
type swapTransactionPayload struct {
	Wallet                        string          `json:"wallet"`
	InputAccount                  string          `json:"inputAccount"`
	OutputAccount                 string          `json:"outputAccount"`
	TxVersion                     string          `json:"txVersion"`
	WrapSol                       bool            `json:"wrapSol"`
	UnwrapSol                     bool            `json:"unwrapSol"`
	ComputeUnitPriceMicroLamports string          `json:"computeUnitPriceMicroLamports"`
	SwapResponse                  json.RawMessage `json:"swapResponse"`
}

// validateRequest проверяет инварианты запроса до любых сетевых вызовов
func (b *Builder) validateRequest(req *SwapRequest) error {
	if req == nil {
		return fmt.Errorf("swap request cannot be nil")
	}
	if err := req.Input.Validate(); err != nil {
		return err
	}
	if req.Wallet.IsZero() {
		return fmt.Errorf("wallet public key is required")
	}
	if req.SlippageBps >= types.MaxSlippageBps {
		return fmt.Errorf("slippage tolerance %d bps out of range [0, %d)",
			req.SlippageBps, types.MaxSlippageBps)
	}
	if _, err := solana.PublicKeyFromBase58(req.Input.Mint); err != nil {
		return fmt.Errorf("invalid input mint %q: %w", req.Input.Mint, err)
	}
	if _, err := solana.PublicKeyFromBase58(req.OutputMint); err != nil {
		return fmt.Errorf("invalid output mint %q: %w", req.OutputMint, err)
	}
	if req.Input.Mint == req.OutputMint {
		return fmt.Errorf("input and output mints are the same: %s", req.Input.Mint)
	}
	return nil
}

// GenerateTransaction собирает неподписанную транзакцию свапа.
// Последовательность: валидация запроса, расчет маршрута (закрепленный
// маршрут должен совпасть с рассчитанным по пулам), проверка существования
// пулов, контроль влияния на цену и minAmountOut,
// запрос транзакции у API. Транзакция никогда не возвращается частично
// собранной: любая ошибка на любом шаге отменяет весь вызов.
func (b *Builder) GenerateTransaction(ctx context.Context, req *SwapRequest) (*UnsignedTransaction, error) {
	if err := b.validateRequest(req); err != nil {
		return nil, err
	}

	slippageBps := req.SlippageBps
	if slippageBps == 0 {
		slippageBps = b.opts.SlippageBps
	}

	// Закрепленный маршрут проверяем на существование пулов до расчета
	if len(req.Route) > 0 {
		if _, err := b.GetPoolsInfo(ctx, req.Route); err != nil {
			return nil, fmt.Errorf("pinned route validation: %w", err)
		}
	}

	compute, err := b.computeSwapEnvelope(ctx, req.Input.Mint, req.OutputMint, req.Input.Amount, slippageBps)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.noRoute() {
			return nil, fmt.Errorf("%w: no route from %s to %s",
				ErrInsufficientLiquidity, req.Input.Mint, req.OutputMint)
		}
		return nil, fmt.Errorf("compute swap: %w", err)
	}

	if len(compute.data.RoutePlan) == 0 {
		return nil, fmt.Errorf("%w: empty route plan", ErrInsufficientLiquidity)
	}

	// Transaction endpoint принимает только собственный compute ответ, поэтому
	// закрепленный маршрут выполним, только если расчет прошел через те же пулы
	if len(req.Route) > 0 && !routeMatches(req.Route, Route(compute.data.RoutePlan)) {
		return nil, fmt.Errorf("%w: computed route diverges from pinned route %v",
			ErrInsufficientLiquidity, req.Route.PoolIDs())
	}

	if compute.data.PriceImpactPct > b.opts.PriceImpactMax {
		return nil, fmt.Errorf("%w: price impact %.4f exceeds limit %.4f",
			ErrInsufficientLiquidity, compute.data.PriceImpactPct, b.opts.PriceImpactMax)
	}

	// Пулы рассчитанного маршрута тоже должны существовать на момент сборки
	if _, err := b.GetPoolsInfo(ctx, Route(compute.data.RoutePlan)); err != nil {
		return nil, fmt.Errorf("route validation: %w", err)
	}

	expectedOut, err := strconv.ParseUint(compute.data.OutputAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse output amount %q: %w", compute.data.OutputAmount, err)
	}
	threshold, err := strconv.ParseUint(compute.data.OtherAmountThreshold, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse amount threshold %q: %w", compute.data.OtherAmountThreshold, err)
	}

	// Порог из ответа API не должен нарушать запрошенный допуск
	minOut := types.MinAmountOutBps(expectedOut, slippageBps)
	if threshold < minOut {
		return nil, fmt.Errorf("%w: provider threshold %d below slippage floor %d",
			ErrInsufficientLiquidity, threshold, minOut)
	}

	inMint := solana.MustPublicKeyFromBase58(req.Input.Mint)
	outMint := solana.MustPublicKeyFromBase58(req.OutputMint)

	inputATA, _, err := solana.FindAssociatedTokenAddress(req.Wallet, inMint)
	if err != nil {
		return nil, fmt.Errorf("derive input token account: %w", err)
	}
	outputATA, _, err := solana.FindAssociatedTokenAddress(req.Wallet, outMint)
	if err != nil {
		return nil, fmt.Errorf("derive output token account: %w", err)
	}

	payload := swapTransactionPayload{
		Wallet:                        req.Wallet.String(),
		InputAccount:                  inputATA.String(),
		OutputAccount:                 outputATA.String(),
		TxVersion:                     txVersionV0,
		WrapSol:                       req.WrapSOL,
		UnwrapSol:                     req.UnwrapSOL,
		ComputeUnitPriceMicroLamports: strconv.FormatUint(b.priorityFeeOrDefault(ctx), 10),
		SwapResponse:                  compute.envelope,
	}

	envelope, err := b.postEnvelope(ctx, b.opts.TradeHost+"/transaction/swap-base-in", payload)
	if err != nil {
		return nil, fmt.Errorf("request transaction: %w", err)
	}

	var data struct {
		Transaction string `json:"transaction"`
	}
	if err := decodeData(envelope, &data); err != nil {
		return nil, err
	}
	if data.Transaction == "" {
		return nil, fmt.Errorf("empty transaction in response id=%s", envelope.ID)
	}

	b.logger.Info("swap transaction generated",
		zap.String("input_mint", req.Input.Mint),
		zap.String("output_mint", req.OutputMint),
		zap.Uint64("amount_in", req.Input.Amount),
		zap.Uint64("min_amount_out", threshold),
		zap.Uint16("slippage_bps", slippageBps),
		zap.Int("route_hops", len(compute.data.RoutePlan)))

	return &UnsignedTransaction{
		Base64:       data.Transaction,
		Version:      txVersionV0,
		MinAmountOut: threshold,
		Route:        Route(compute.data.RoutePlan),
	}, nil
}

// routeMatches проверяет, что рассчитанный маршрут проходит через те же пулы
// в том же порядке, что и закрепленный
func routeMatches(pinned, computed Route) bool {
	pinnedIDs, computedIDs := pinned.PoolIDs(), computed.PoolIDs()
	if len(pinnedIDs) != len(computedIDs) {
		return false
	}
	for i := range pinnedIDs {
		if pinnedIDs[i] != computedIDs[i] {
			return false
		}
	}
	return true
}

// computeResult сохраняет и разобранные данные, и сырой envelope:
// transaction endpoint ожидает swapResponse в исходном виде
type computeResult struct {
	data     SwapComputeData
	envelope json.RawMessage
}

// computeSwapEnvelope запрашивает расчет свапа, сохраняя сырой envelope
func (b *Builder) computeSwapEnvelope(ctx context.Context, inputMint, outputMint string, amountIn uint64, slippageBps uint16) (*computeResult, error) {
	if amountIn == 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	params := url.Values{}
	params.Set("inputMint", inputMint)
	params.Set("outputMint", outputMint)
	params.Set("amount", strconv.FormatUint(amountIn, 10))
	params.Set("slippageBps", strconv.FormatUint(uint64(slippageBps), 10))
	params.Set("txVersion", txVersionV0)

	envelope, err := b.getEnvelopeRaw(ctx, b.opts.TradeHost+"/compute/swap-base-in", params)
	if err != nil {
		return nil, err
	}

	result := &computeResult{envelope: envelope.raw}
	if err := decodeData(&envelope.apiResponse, &result.data); err != nil {
		return nil, err
	}
	return result, nil
}

// Decode десериализует транзакцию для передачи в подписывающий код
func (tx *UnsignedTransaction) Decode() (*solana.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(tx.Base64)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}

	decoded, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	return decoded, nil
}
