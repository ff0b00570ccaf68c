// internal/raydium/quote_test.go
package raydium

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/raydium-swap/internal/types"
)

func TestGetRoutes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/compute/swap-base-in", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testSOLMint, r.URL.Query().Get("inputMint"))
		assert.Equal(t, testUSDCMint, r.URL.Query().Get("outputMint"))
		fmt.Fprint(w, computeEnvelope("1000000000", "150000000", "149250000", 0.01))
	})
	builder := newTestBuilder(t, mux)

	route, err := builder.GetRoutes(context.Background(), testSOLMint, testUSDCMint, 1_000_000_000)
	require.NoError(t, err)
	require.Len(t, route, 1)
	assert.Equal(t, testPoolID, route[0].PoolID)
	assert.Equal(t, testSOLMint, route[0].InputMint)
	assert.Equal(t, testUSDCMint, route[0].OutputMint)
}

func TestGetRoutesDisconnectedTokens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/compute/swap-base-in", func(w http.ResponseWriter, r *http.Request) {
		// API отвечает success=false, когда маршрута между токенами нет
		fmt.Fprint(w, `{"id": "test", "success": false, "msg": "ROUTE_NOT_FOUND"}`)
	})
	builder := newTestBuilder(t, mux)

	route, err := builder.GetRoutes(context.Background(), testSOLMint, testUSDCMint, 1_000_000_000)
	// Отсутствие пути - не ошибка, а пустой результат
	require.NoError(t, err)
	assert.Empty(t, route)
}

func TestGetRoutesProviderUnavailable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/compute/swap-base-in", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	builder := newTestBuilder(t, mux)

	_, err := builder.GetRoutes(context.Background(), testSOLMint, testUSDCMint, 1_000_000_000)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestGetRoutesAPIErrorNotRetryable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/compute/swap-base-in", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "test", "success": false, "msg": "RATE_LIMITED"}`)
	})
	builder := newTestBuilder(t, mux)

	_, err := builder.GetRoutes(context.Background(), testSOLMint, testUSDCMint, 1_000_000_000)
	require.Error(t, err)

	// Осмысленный отказ API - не сбой провайдера
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "RATE_LIMITED", apiErr.Message)
	assert.NotErrorIs(t, err, ErrProviderUnavailable)
}

func TestGetRoutesZeroAmount(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { called = true })
	builder := newTestBuilder(t, mux)

	_, err := builder.GetRoutes(context.Background(), testSOLMint, testUSDCMint, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.False(t, called, "zero amount must be rejected before any network call")
}

func TestGetPrice(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/compute/swap-base-in", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, computeEnvelope("1000000000", "150000000", "149250000", 0.01))
	})
	mux.HandleFunc("/pools/info/ids", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testPoolID, r.URL.Query().Get("ids"))
		fmt.Fprint(w, poolsEnvelope())
	})
	builder := newTestBuilder(t, mux)

	price, err := builder.GetPrice(context.Background(), testSOLMint, testUSDCMint, 1_000_000_000)
	require.NoError(t, err)

	// 1 SOL (9 decimals) -> 150 USDC (6 decimals): сырой курс 0.15, в целых токенах 150
	assert.InDelta(t, 0.15, price.Raw(), 1e-12)
	assert.InDelta(t, 150.0, price.PerToken(), 1e-9)
	assert.Equal(t, uint8(9), price.Input.Decimals)
	assert.Equal(t, uint8(6), price.Output.Decimals)
}

func TestGetPoolsInfo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pools/info/ids", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, poolsEnvelope())
	})
	builder := newTestBuilder(t, mux)

	route := Route{{PoolID: testPoolID, InputMint: testSOLMint, OutputMint: testUSDCMint}}
	pools, err := builder.GetPoolsInfo(context.Background(), route)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.Equal(t, testPoolID, pools[0].ID)
	assert.Equal(t, uint8(9), pools[0].MintA.Decimals)
	assert.Equal(t, uint8(6), pools[0].MintB.Decimals)
	assert.InDelta(t, 0.0025, pools[0].FeeRate, 1e-12)
}

func TestGetPoolsInfoPoolVanished(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pools/info/ids", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, vanishedPoolsEnvelope())
	})
	builder := newTestBuilder(t, mux)

	route := Route{{PoolID: testPoolID}}
	_, err := builder.GetPoolsInfo(context.Background(), route)
	assert.ErrorIs(t, err, ErrPoolNotFound)
}

func TestGetRPCs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/main/rpcs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "test", "success": true, "data": {"rpcs": [
			{"url": "https://rpc-a.example.com/", "batch": true, "name": "Triton", "weight": 100},
			{"url": "https://rpc-b.example.com/", "batch": false, "name": "Backup", "weight": 10}
		]}}`)
	})
	builder := newTestBuilder(t, mux)

	rpcs, err := builder.GetRPCs(context.Background())
	require.NoError(t, err)
	require.Len(t, rpcs, 2)
	assert.Equal(t, "Triton", rpcs[0].Name)
	assert.Equal(t, 100, rpcs[0].Weight)
	assert.True(t, rpcs[0].Batch)
}

func TestGetPriorityFee(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/main/auto-fee", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, autoFeeEnvelope())
	})
	builder := newTestBuilder(t, mux)

	tests := []struct {
		tier     string
		expected uint64
	}{
		{"m", 10000},
		{"h", 25000},
		{"vh", 50000},
	}
	for _, tt := range tests {
		fee, err := builder.GetPriorityFee(context.Background(), types.Priority(tt.tier))
		require.NoError(t, err)
		assert.Equal(t, tt.expected, fee)
	}

	_, err := builder.GetPriorityFee(context.Background(), types.Priority("turbo"))
	assert.Error(t, err)
}
