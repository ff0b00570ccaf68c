// internal/raydium/types.go
package raydium

import (
	"encoding/json"

	"github.com/gagliardetto/solana-go"
)

// apiResponse представляет общий envelope ответов Raydium v3 API
type apiResponse struct {
	ID      string          `json:"id"`
	Success bool            `json:"success"`
	Version string          `json:"version,omitempty"`
	Msg     string          `json:"msg,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// SwapComputeData содержит результат расчета свапа (compute/swap-base-in)
type SwapComputeData struct {
	SwapType             string          `json:"swapType"`
	InputMint            string          `json:"inputMint"`
	InputAmount          string          `json:"inputAmount"`
	OutputMint           string          `json:"outputMint"`
	OutputAmount         string          `json:"outputAmount"`
	OtherAmountThreshold string          `json:"otherAmountThreshold"`
	SlippageBps          uint16          `json:"slippageBps"`
	PriceImpactPct       float64         `json:"priceImpactPct"`
	RoutePlan            []RoutePlanStep `json:"routePlan"`
}

// RoutePlanStep представляет один шаг маршрута через пул ликвидности
type RoutePlanStep struct {
	PoolID            string   `json:"poolId"`
	InputMint         string   `json:"inputMint"`
	OutputMint        string   `json:"outputMint"`
	FeeMint           string   `json:"feeMint"`
	FeeRate           float64  `json:"feeRate"`
	FeeAmount         string   `json:"feeAmount"`
	RemainingAccounts []string `json:"remainingAccounts"`
	LastPoolPriceX64  string   `json:"lastPoolPriceX64,omitempty"`
}

// Route - упорядоченная последовательность пулов от входного токена к выходному
type Route []RoutePlanStep

// PoolIDs возвращает уникальные ID пулов маршрута, сохраняя порядок
func (r Route) PoolIDs() []string {
	seen := make(map[string]bool, len(r))
	ids := make([]string, 0, len(r))
	for _, step := range r {
		if !seen[step.PoolID] {
			seen[step.PoolID] = true
			ids = append(ids, step.PoolID)
		}
	}
	return ids
}

// MintMeta содержит метаданные токена из pool info
type MintMeta struct {
	ChainID  int    `json:"chainId"`
	Address  string `json:"address"`
	Program  string `json:"programId"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

// PoolInfo содержит текущее состояние пула ликвидности
type PoolInfo struct {
	Type        string   `json:"type"`
	ProgramID   string   `json:"programId"`
	ID          string   `json:"id"`
	MintA       MintMeta `json:"mintA"`
	MintB       MintMeta `json:"mintB"`
	Price       float64  `json:"price"`
	MintAmountA float64  `json:"mintAmountA"`
	MintAmountB float64  `json:"mintAmountB"`
	FeeRate     float64  `json:"feeRate"`
	OpenTime    string   `json:"openTime"`
	TVL         float64  `json:"tvl"`
}

// RPCEndpoint описывает RPC узел сети из main/rpcs
type RPCEndpoint struct {
	URL    string `json:"url"`
	Batch  bool   `json:"batch"`
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// SwapRequest описывает намерение свапа. Создается на каждую попытку,
// неизменяем после создания.
type SwapRequest struct {
	// Input - входной токен с количеством в минимальных единицах
	Input TokenAmount
	// OutputMint - mint адрес выходного токена
	OutputMint string
	// Wallet - публичный ключ кошелька, от имени которого строится транзакция
	Wallet solana.PublicKey
	// SlippageBps - допустимое проскальзывание в базисных пунктах; 0 означает
	// значение из Options
	SlippageBps uint16
	// Route - опционально закрепленный маршрут; при nil маршрут выбирается автоматически
	Route Route
	// WrapSOL / UnwrapSOL управляют оборачиванием нативного SOL
	WrapSOL   bool
	UnwrapSOL bool
}

// UnsignedTransaction - собранная, но не подписанная транзакция свапа.
// Владение передается вызывающему, который отвечает за подпись и отправку.
type UnsignedTransaction struct {
	// Base64 - сериализованная транзакция в base64
	Base64 string
	// Version - версия транзакции ("V0" или "LEGACY")
	Version string
	// MinAmountOut - минимальный выход, заложенный в транзакцию
	MinAmountOut uint64
	// Route - маршрут, по которому построена транзакция
	Route Route
}
