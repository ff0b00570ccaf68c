// internal/raydium/rpcs.go
package raydium

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// GetRPCs возвращает упорядоченный список известных RPC узлов сети.
// Список информационный: Builder сам никогда не отправляет транзакции.
func (b *Builder) GetRPCs(ctx context.Context) ([]RPCEndpoint, error) {
	envelope, err := b.getEnvelope(ctx, b.opts.DataHost+"/main/rpcs", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch rpcs: %w", err)
	}

	var data struct {
		RPCs []RPCEndpoint `json:"rpcs"`
	}
	if err := decodeData(envelope, &data); err != nil {
		return nil, err
	}

	b.logger.Debug("rpc endpoints retrieved", zap.Int("count", len(data.RPCs)))
	return data.RPCs, nil
}
