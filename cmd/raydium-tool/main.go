// ====================================
// File: cmd/raydium-tool/main.go
// ====================================
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/raydium-swap/internal/config"
	"github.com/rovshanmuradov/raydium-swap/internal/logger"
	"github.com/rovshanmuradov/raydium-swap/internal/raydium"
	"github.com/rovshanmuradov/raydium-swap/internal/rpcpool"
	"github.com/rovshanmuradov/raydium-swap/internal/types"
)

const usage = `usage: raydium-tool [-config path] <command> [args]

commands:
  price  <inputMint> <outputMint> <amount>            курс обмена после маршрутизации
  routes <inputMint> <outputMint> <amount>            план маршрута
  pools  <inputMint> <outputMint> <amount>            состояние пулов маршрута
  rpcs                                                список RPC узлов
  probe                                               проверка доступности RPC узлов
  fee    <m|h|vh>                                     приоритетная комиссия
  tx     <inputMint> <outputMint> <amount> <wallet>   неподписанная транзакция свапа
`

func main() {
	configPath := flag.String("config", "configs/config.json", "path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Development = cfg.DebugLogging
	if cfg.LogFile != "" {
		logCfg.LogFile = cfg.LogFile
	}
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	builder := raydium.NewBuilder(raydium.Options{
		TradeHost:      cfg.TradeHost,
		DataHost:       cfg.DataHost,
		Timeout:        time.Duration(cfg.TimeoutMs) * time.Millisecond,
		SlippageBps:    uint16(cfg.SlippageBps),
		PriceImpactMax: cfg.PriceImpactMax,
		Retries:        uint(cfg.Retries),
		RateLimit:      cfg.RateLimit,
		PriorityTier:   types.Priority(cfg.PriorityTier),
	}, log.Logger)

	if err := run(ctx, builder, log, flag.Args()); err != nil {
		log.LogError("command failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, builder *raydium.Builder, log *logger.Logger, args []string) error {
	opLog := log.WithOperation(args[0])
	opLog.Debug("command started")

	switch args[0] {
	case "price":
		mintIn, mintOut, amount, err := swapArgs(args[1:])
		if err != nil {
			return err
		}
		price, err := builder.GetPrice(ctx, mintIn, mintOut, amount)
		if err != nil {
			return err
		}
		fmt.Printf("raw: %.12f\nper token: %.12f\n", price.Raw(), price.PerToken())
		return nil

	case "routes":
		mintIn, mintOut, amount, err := swapArgs(args[1:])
		if err != nil {
			return err
		}
		route, err := builder.GetRoutes(ctx, mintIn, mintOut, amount)
		if err != nil {
			return err
		}
		return printJSON(route)

	case "pools":
		mintIn, mintOut, amount, err := swapArgs(args[1:])
		if err != nil {
			return err
		}
		route, err := builder.GetRoutes(ctx, mintIn, mintOut, amount)
		if err != nil {
			return err
		}
		if len(route) == 0 {
			return fmt.Errorf("no route between %s and %s", mintIn, mintOut)
		}
		pools, err := builder.GetPoolsInfo(ctx, route)
		if err != nil {
			return err
		}
		return printJSON(pools)

	case "rpcs":
		rpcs, err := builder.GetRPCs(ctx)
		if err != nil {
			return err
		}
		return printJSON(rpcs)

	case "probe":
		rpcs, err := builder.GetRPCs(ctx)
		if err != nil {
			return err
		}
		pool, err := rpcpool.New(rpcs, opLog)
		if err != nil {
			return err
		}
		return printJSON(pool.Probe(ctx))

	case "fee":
		if len(args) != 2 {
			return fmt.Errorf("fee requires tier argument (m, h or vh)")
		}
		fee, err := builder.GetPriorityFee(ctx, types.Priority(args[1]))
		if err != nil {
			return err
		}
		fmt.Printf("%d\n", fee)
		return nil

	case "tx":
		if len(args) != 5 {
			return fmt.Errorf("tx requires inputMint, outputMint, amount and wallet")
		}
		mintIn, mintOut, amount, err := swapArgs(args[1:4])
		if err != nil {
			return err
		}
		wallet, err := solana.PublicKeyFromBase58(args[4])
		if err != nil {
			return fmt.Errorf("invalid wallet: %w", err)
		}
		swapLog := log.WithSwap(mintIn, mintOut, amount)
		tx, err := builder.GenerateTransaction(ctx, &raydium.SwapRequest{
			Input:      raydium.TokenAmount{Mint: mintIn, Amount: amount},
			OutputMint: mintOut,
			Wallet:     wallet,
			WrapSOL:    true,
			UnwrapSOL:  true,
		})
		if err != nil {
			return err
		}
		swapLog.Debug("swap transaction ready")
		fmt.Println(tx.Base64)
		return nil

	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func swapArgs(args []string) (string, string, uint64, error) {
	if len(args) != 3 {
		return "", "", 0, fmt.Errorf("expected inputMint, outputMint and amount")
	}
	amount, err := strconv.ParseUint(args[2], 10, 64)
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid amount %q: %w", args[2], err)
	}
	return args[0], args[1], amount, nil
}

func printJSON(v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}
