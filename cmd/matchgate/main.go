// matchgate replays a framed market-data feed through the matching engine,
// or runs a synthetic benchmark when no feed file is given.
//
//	matchgate <feed-file> [cpu-core]
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/matchgate/matchgate/internal/book"
	"github.com/matchgate/matchgate/internal/config"
	"github.com/matchgate/matchgate/internal/display"
	"github.com/matchgate/matchgate/internal/engine"
	"github.com/matchgate/matchgate/internal/feed"
	"github.com/matchgate/matchgate/internal/platform"
	"github.com/matchgate/matchgate/pkg/latency"
	"github.com/matchgate/matchgate/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	engCfg := engine.Config{
		ArenaSize:   cfg.Engine.ArenaSize,
		RingSize:    cfg.Engine.RingSize,
		SymbolsHint: cfg.Engine.SymbolsHint,
		CPUCore:     cfg.Engine.CPUCore,
		NUMANode:    cfg.Engine.NUMANode,
		HugePages:   cfg.Engine.HugePages,
	}

	args := os.Args[1:]
	if len(args) >= 2 {
		core, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid cpu core %q\n", args[1])
			os.Exit(1)
		}
		engCfg.CPUCore = core
	}

	eng, err := engine.New(engCfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to create engine", zap.Error(err))
	}
	defer eng.Close()

	eng.Start()
	defer eng.Stop()

	if len(args) >= 1 {
		replayFeed(eng, zapLogger, args[0])
		return
	}

	fmt.Println("no feed file provided, running synthetic benchmark")
	runSyntheticBenchmark(eng)
}

func replayFeed(eng *engine.Engine, zapLogger *zap.Logger, path string) {
	replayer := feed.NewReplayer(eng, zapLogger)
	stats, err := replayer.ReplayFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rate := float64(stats.Messages) / stats.Elapsed.Seconds() / 1e6

	fmt.Println("\nReplay complete:")
	fmt.Printf("  Total messages: %d\n", stats.Messages)
	fmt.Printf("  Elapsed time: %s\n", display.Duration(uint64(stats.Elapsed.Nanoseconds())))
	fmt.Printf("  Throughput: %.2f million msg/s\n", rate)
	fmt.Println("\nEngine statistics:")
	fmt.Printf("  Total orders: %d\n", eng.TotalOrders())
	fmt.Printf("  Total matches: %d\n", eng.TotalMatches())
	arenaDrops, ringDrops := eng.Drops()
	fmt.Printf("  Arena drops: %d\n", arenaDrops)
	fmt.Printf("  Ring drops: %d\n", ringDrops)
}

func runSyntheticBenchmark(eng *engine.Engine) {
	const (
		symbol    = "AAPL"
		numOrders = 1_000_000
		basePrice = 1_000_000 // $100.0000 in ticks
	)

	latencies := make([]uint64, 0, numOrders)

	fmt.Printf("submitting %d orders...\n", numOrders)
	start := time.Now()

	for i := 0; i < numOrders; i++ {
		side := book.Buy
		if i%2 != 0 {
			side = book.Sell
		}
		price := uint32(basePrice + (i%100)*100)
		qty := uint32(100 + i%900)

		t0 := time.Now()
		eng.SubmitOrder(symbol, uint64(i), platform.NowNanos(), price, qty, side, book.Limit)
		latencies = append(latencies, uint64(time.Since(t0)))
	}

	elapsed := time.Since(start)
	rate := float64(numOrders) / elapsed.Seconds() / 1e6
	summary := latency.Summarize(latencies)

	fmt.Println("\n=== Benchmark Results ===")
	fmt.Printf("Total Orders: %d\n", numOrders)
	fmt.Printf("Elapsed Time: %s\n", display.Duration(uint64(elapsed.Nanoseconds())))
	fmt.Printf("Throughput: %.2f million orders/sec\n", rate)
	fmt.Println("\nLatency (ns):")
	fmt.Printf("  Min: %d\n", summary.Min)
	fmt.Printf("  Mean: %d\n", summary.Mean)
	fmt.Printf("  P50: %d\n", summary.P50)
	fmt.Printf("  P95: %d\n", summary.P95)
	fmt.Printf("  P99: %d\n", summary.P99)
	fmt.Printf("  P99.9: %d\n", summary.P999)
	fmt.Printf("  Max: %d\n", summary.Max)

	printBookState(eng.Book(symbol))

	var reportCount uint64
	for {
		if _, ok := eng.Reports().Pop(); !ok {
			break
		}
		reportCount++
	}
	fmt.Printf("Drained Execution Reports: %d\n", reportCount)
	fmt.Printf("Total Matches: %d\n", eng.TotalMatches())
}

func printBookState(bk *book.Book) {
	if bk == nil {
		return
	}

	fmt.Println("\n=== Order Book State ===")
	if ask := bk.BestAsk(); ask != nil {
		fmt.Printf("Best Ask: %s (%d shares, %d orders)\n",
			display.Price(ask.Price), ask.TotalVolume, ask.OrderCount)
	}
	if bid := bk.BestBid(); bid != nil {
		fmt.Printf("Best Bid: %s (%d shares, %d orders)\n",
			display.Price(bid.Price), bid.TotalVolume, bid.OrderCount)
	}
	if bk.BestBid() != nil && bk.BestAsk() != nil {
		fmt.Printf("Spread: %s\n", display.Price(bk.Spread()))
	}
	fmt.Printf("Resting Orders: %d\n", bk.Orders())
	fmt.Printf("Book Matches: %d\n", bk.Matches())
	fmt.Println("========================")
}
