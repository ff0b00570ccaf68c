// Package raydium реализует клиент для Raydium v3 trade API: расчет цен и
// маршрутов, список RPC узлов и сборка неподписанных swap транзакций.
// Подпись и отправка транзакций остаются на стороне вызывающего кода.
package raydium

import (
	"net/http"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/raydium-swap/internal/types"
)

// API hosts по умолчанию
const (
	DefaultTradeHost = "https://transaction-v1.raydium.io"
	DefaultDataHost  = "https://api-v3.raydium.io"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultRetries        = 3
	defaultRateLimit      = 300 // requests per minute
	defaultSlippageBps    = 10
	defaultPriceImpactMax = 0.1 // доля, не процент

	// Fallback приоритетной комиссии в микролампортах, если auto-fee API недоступен
	defaultPriorityFeeMicroLamports = 15000
)

// Options конфигурирует Builder
type Options struct {
	// TradeHost обслуживает compute и transaction endpoints
	TradeHost string
	// DataHost обслуживает pools/info, main/rpcs и main/auto-fee
	DataHost string
	// Timeout на один HTTP запрос
	Timeout time.Duration
	// SlippageBps - допустимое проскальзывание по умолчанию в базисных пунктах
	SlippageBps uint16
	// PriceImpactMax - максимально допустимое влияние на цену (доля, 0.1 = 10%)
	PriceImpactMax float64
	// Retries - количество повторов при сетевых ошибках
	Retries uint
	// RateLimit - лимит запросов в минуту к API
	RateLimit int
	// PriorityTier - уровень auto-fee для generate_transaction
	PriorityTier types.Priority
}

// DefaultOptions возвращает конфигурацию по умолчанию
func DefaultOptions() Options {
	return Options{
		TradeHost:      DefaultTradeHost,
		DataHost:       DefaultDataHost,
		Timeout:        defaultRequestTimeout,
		SlippageBps:    defaultSlippageBps,
		PriceImpactMax: defaultPriceImpactMax,
		Retries:        defaultRetries,
		RateLimit:      defaultRateLimit,
		PriorityTier:   types.PriorityHigh,
	}
}

// Builder собирает неподписанные swap транзакции через Raydium v3 API.
// Не хранит состояние между вызовами, безопасен для конкурентного использования.
type Builder struct {
	client  *http.Client
	logger  *zap.Logger
	limiter ratelimit.Limiter
	opts    Options
}

// NewBuilder создает новый экземпляр Builder
func NewBuilder(opts Options, logger *zap.Logger) *Builder {
	if opts.TradeHost == "" {
		opts.TradeHost = DefaultTradeHost
	}
	if opts.DataHost == "" {
		opts.DataHost = DefaultDataHost
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultRequestTimeout
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.PriceImpactMax <= 0 {
		opts.PriceImpactMax = defaultPriceImpactMax
	}
	if !opts.PriorityTier.IsValid() {
		opts.PriorityTier = types.PriorityHigh
	}

	return &Builder{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxConnsPerHost:     100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger:  logger.Named("raydium-builder"),
		limiter: ratelimit.New(opts.RateLimit, ratelimit.Per(time.Minute)),
		opts:    opts,
	}
}
