// internal/raydium/pools.go
package raydium

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// GetPoolsInfo получает текущее состояние каждого пула маршрута.
// Возвращает ErrPoolNotFound, если хотя бы один пул больше не существует.
func (b *Builder) GetPoolsInfo(ctx context.Context, route Route) ([]PoolInfo, error) {
	ids := route.PoolIDs()
	if len(ids) == 0 {
		return nil, fmt.Errorf("route contains no pools")
	}

	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))

	envelope, err := b.getEnvelope(ctx, b.opts.DataHost+"/pools/info/ids", params)
	if err != nil {
		return nil, fmt.Errorf("fetch pools info: %w", err)
	}

	// API возвращает null вместо элемента для неизвестных ID
	var raw []*PoolInfo
	if err := decodeData(envelope, &raw); err != nil {
		return nil, err
	}

	found := make(map[string]PoolInfo, len(raw))
	for _, pool := range raw {
		if pool != nil {
			found[pool.ID] = *pool
		}
	}

	pools := make([]PoolInfo, 0, len(ids))
	for _, id := range ids {
		pool, ok := found[id]
		if !ok {
			b.logger.Warn("pool missing from provider response", zap.String("pool_id", id))
			return nil, fmt.Errorf("%w: pool %s", ErrPoolNotFound, id)
		}
		pools = append(pools, pool)
	}

	b.logger.Debug("pools info retrieved", zap.Int("pools", len(pools)))
	return pools, nil
}
