// internal/raydium/fee.go
package raydium

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/raydium-swap/internal/types"
)

// GetPriorityFee возвращает рекомендованную приоритетную комиссию в
// микролампортах для заданного уровня из auto-fee endpoint
func (b *Builder) GetPriorityFee(ctx context.Context, tier types.Priority) (uint64, error) {
	if !tier.IsValid() {
		return 0, fmt.Errorf("unknown priority tier: %q", tier)
	}

	envelope, err := b.getEnvelope(ctx, b.opts.DataHost+"/main/auto-fee", nil)
	if err != nil {
		return 0, fmt.Errorf("fetch auto fee: %w", err)
	}

	var data struct {
		Default struct {
			VH uint64 `json:"vh"`
			H  uint64 `json:"h"`
			M  uint64 `json:"m"`
		} `json:"default"`
	}
	if err := decodeData(envelope, &data); err != nil {
		return 0, err
	}

	var fee uint64
	switch tier {
	case types.PriorityVeryHigh:
		fee = data.Default.VH
	case types.PriorityHigh:
		fee = data.Default.H
	case types.PriorityMedium:
		fee = data.Default.M
	}

	b.logger.Debug("auto fee retrieved",
		zap.String("tier", tier.String()),
		zap.Uint64("micro_lamports", fee))

	return fee, nil
}

// priorityFeeOrDefault запрашивает auto-fee и падает обратно на константу,
// чтобы недоступность fee API не блокировала сборку транзакции
func (b *Builder) priorityFeeOrDefault(ctx context.Context) uint64 {
	fee, err := b.GetPriorityFee(ctx, b.opts.PriorityTier)
	if err != nil || fee == 0 {
		b.logger.Warn("auto fee unavailable, using default",
			zap.Uint64("default_micro_lamports", uint64(defaultPriorityFeeMicroLamports)),
			zap.Error(err))
		return defaultPriorityFeeMicroLamports
	}
	return fee
}
