// internal/raydium/helpers_test.go
package raydium

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/raydium-swap/internal/types"
)

const (
	testSOLMint  = "So11111111111111111111111111111111111111112"
	testUSDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	testPoolID   = "58oQChx4yWmvKdwLLZzBi4ChoCc2fqCUWBkwMihLYQo2"
)

// newTestBuilder создает Builder поверх httptest сервера без retry задержек
func newTestBuilder(t *testing.T, mux *http.ServeMux) *Builder {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewBuilder(Options{
		TradeHost:      server.URL,
		DataHost:       server.URL,
		Timeout:        5 * time.Second,
		SlippageBps:    50,
		PriceImpactMax: 0.1,
		Retries:        0,
		RateLimit:      100000,
		PriorityTier:   types.PriorityHigh,
	}, zap.NewNop())
}

// computeEnvelope возвращает JSON ответа compute endpoint с одним шагом маршрута
func computeEnvelope(inputAmount, outputAmount, threshold string, priceImpact float64) string {
	return fmt.Sprintf(`{
		"id": "test-compute",
		"success": true,
		"version": "V1",
		"data": {
			"swapType": "BaseIn",
			"inputMint": %q,
			"inputAmount": %q,
			"outputMint": %q,
			"outputAmount": %q,
			"otherAmountThreshold": %q,
			"slippageBps": 50,
			"priceImpactPct": %g,
			"routePlan": [{
				"poolId": %q,
				"inputMint": %q,
				"outputMint": %q,
				"feeMint": %q,
				"feeRate": 0.0025,
				"feeAmount": "2500000",
				"remainingAccounts": []
			}]
		}
	}`, testSOLMint, inputAmount, testUSDCMint, outputAmount, threshold, priceImpact,
		testPoolID, testSOLMint, testUSDCMint, testSOLMint)
}

// poolsEnvelope возвращает JSON ответа pools/info/ids для пары SOL/USDC
func poolsEnvelope() string {
	return fmt.Sprintf(`{
		"id": "test-pools",
		"success": true,
		"data": [{
			"type": "Standard",
			"programId": "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8",
			"id": %q,
			"mintA": {"chainId": 101, "address": %q, "symbol": "WSOL", "name": "Wrapped SOL", "decimals": 9},
			"mintB": {"chainId": 101, "address": %q, "symbol": "USDC", "name": "USD Coin", "decimals": 6},
			"price": 150.0,
			"mintAmountA": 119181.22,
			"mintAmountB": 1592306.04,
			"feeRate": 0.0025,
			"openTime": "1723037622",
			"tvl": 16518790.88
		}]
	}`, testPoolID, testSOLMint, testUSDCMint)
}

// vanishedPoolsEnvelope имитирует ответ, в котором запрошенный пул исчез
func vanishedPoolsEnvelope() string {
	return `{"id": "test-pools", "success": true, "data": [null]}`
}

// autoFeeEnvelope возвращает JSON ответа main/auto-fee
func autoFeeEnvelope() string {
	return `{"id": "test-fee", "success": true, "data": {"default": {"vh": 50000, "h": 25000, "m": 10000}}}`
}
