// internal/rpcpool/pool.go
package rpcpool

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/raydium-swap/internal/raydium"
)

// Pool распределяет обращения по RPC узлам из GetRPCs round-robin'ом.
// Узлы упорядочены по убыванию веса. Сам Builder пул не использует:
// это вспомогательный слой для кода, который будет отправлять транзакции.
type Pool struct {
	endpoints []raydium.RPCEndpoint
	client    *http.Client
	logger    *zap.Logger
	index     uint64
}

// Status - результат проверки доступности узла
type Status struct {
	Endpoint  raydium.RPCEndpoint
	Reachable bool
	Latency   time.Duration
	Err       error
}

// New создает пул из списка узлов, отсортированного по весу
func New(endpoints []raydium.RPCEndpoint, logger *zap.Logger) (*Pool, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("endpoint list is empty")
	}

	sorted := make([]raydium.RPCEndpoint, len(endpoints))
	copy(sorted, endpoints)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})

	return &Pool{
		endpoints: sorted,
		client:    &http.Client{Timeout: 5 * time.Second},
		logger:    logger.Named("rpc-pool"),
	}, nil
}

// Next возвращает следующий узел round-robin'ом
func (p *Pool) Next() raydium.RPCEndpoint {
	if len(p.endpoints) == 1 {
		return p.endpoints[0]
	}
	idx := (atomic.AddUint64(&p.index, 1) - 1) % uint64(len(p.endpoints))
	return p.endpoints[idx]
}

// Endpoints возвращает узлы в порядке убывания веса
func (p *Pool) Endpoints() []raydium.RPCEndpoint {
	out := make([]raydium.RPCEndpoint, len(p.endpoints))
	copy(out, p.endpoints)
	return out
}

// Size возвращает количество узлов в пуле
func (p *Pool) Size() int {
	return len(p.endpoints)
}

// Probe параллельно проверяет доступность всех узлов через getHealth.
// Ошибки отдельных узлов не прерывают проверку остальных.
func (p *Pool) Probe(ctx context.Context) []Status {
	statuses := make([]Status, len(p.endpoints))

	g, ctx := errgroup.WithContext(ctx)
	for i, endpoint := range p.endpoints {
		g.Go(func() error {
			statuses[i] = p.probeOne(ctx, endpoint)
			return nil
		})
	}
	_ = g.Wait()

	for _, status := range statuses {
		if !status.Reachable {
			p.logger.Warn("rpc endpoint unreachable",
				zap.String("name", status.Endpoint.Name),
				zap.String("url", status.Endpoint.URL),
				zap.Error(status.Err))
		}
	}

	return statuses
}

// probeOne выполняет один getHealth запрос
func (p *Pool) probeOne(ctx context.Context, endpoint raydium.RPCEndpoint) Status {
	status := Status{Endpoint: endpoint}

	body := []byte(`{"jsonrpc":"2.0","id":1,"method":"getHealth"}`)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.URL, bytes.NewReader(body))
	if err != nil {
		status.Err = fmt.Errorf("create request: %w", err)
		return status
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		status.Err = fmt.Errorf("execute request: %w", err)
		return status
	}
	defer resp.Body.Close()

	status.Latency = time.Since(start)
	if resp.StatusCode != http.StatusOK {
		status.Err = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		return status
	}

	status.Reachable = true
	return status
}
