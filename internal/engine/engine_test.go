package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matchgate/matchgate/internal/book"
)

func newTestEngine(t *testing.T, mutate ...func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ArenaSize = 4096
	cfg.RingSize = 256
	for _, m := range mutate {
		m(&cfg)
	}
	e, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestSubmitRestsNonCrossingLimit(t *testing.T) {
	e := newTestEngine(t)

	e.SubmitOrder("AAPL", 1, 10, 100000, 100, book.Buy, book.Limit)

	bk := e.Book("AAPL")
	require.NotNil(t, bk)
	require.NotNil(t, bk.BestBid())
	assert.Equal(t, uint32(100000), bk.BestBid().Price)
	assert.Equal(t, uint64(1), e.TotalOrders())
	assert.Equal(t, uint64(0), e.TotalMatches())
	assert.True(t, e.Reports().Empty())
}

func TestSubmitCrossingLimitMatches(t *testing.T) {
	e := newTestEngine(t)

	e.SubmitOrder("AAPL", 1, 10, 100000, 100, book.Sell, book.Limit)
	e.SubmitOrder("AAPL", 2, 20, 100000, 50, book.Buy, book.Limit)

	report, ok := e.Reports().Pop()
	require.True(t, ok)
	assert.Equal(t, uint64(2), report.OrderID)
	assert.Equal(t, uint32(100000), report.Price)
	assert.Equal(t, uint32(50), report.Quantity)
	assert.True(t, report.IsFull)

	assert.Equal(t, uint64(2), e.TotalOrders())
	assert.Equal(t, uint64(1), e.TotalMatches())

	bk := e.Book("AAPL")
	passive, resting := bk.Lookup(1)
	require.True(t, resting)
	assert.Equal(t, uint32(50), passive.Remaining)
}

func TestLimitBuyAtBestAskCrosses(t *testing.T) {
	e := newTestEngine(t)
	e.SubmitOrder("AAPL", 1, 10, 100000, 100, book.Sell, book.Limit)

	// Exactly at the ask: crosses.
	e.SubmitOrder("AAPL", 2, 20, 100000, 10, book.Buy, book.Limit)
	_, ok := e.Reports().Pop()
	assert.True(t, ok)

	// One tick below: rests.
	e.SubmitOrder("AAPL", 3, 30, 99999, 10, book.Buy, book.Limit)
	assert.True(t, e.Reports().Empty())
	assert.Equal(t, uint32(99999), e.Book("AAPL").BestBid().Price)
}

func TestMarketOrderWithoutLiquidityIsDiscarded(t *testing.T) {
	e := newTestEngine(t)

	e.SubmitOrder("AAPL", 1, 10, 0, 100, book.Buy, book.Market)

	assert.Equal(t, uint64(1), e.TotalOrders())
	assert.True(t, e.Reports().Empty())
	bk := e.Book("AAPL")
	require.NotNil(t, bk)
	assert.Equal(t, 0, bk.Orders())
	assert.Nil(t, bk.BestBid())
}

func TestMarketResidualIsDiscarded(t *testing.T) {
	e := newTestEngine(t)
	e.SubmitOrder("AAPL", 1, 10, 100000, 50, book.Sell, book.Limit)

	e.SubmitOrder("AAPL", 2, 20, 0, 120, book.Buy, book.Market)

	report, ok := e.Reports().Pop()
	require.True(t, ok)
	assert.Equal(t, uint32(50), report.Quantity)
	assert.False(t, report.IsFull)

	bk := e.Book("AAPL")
	assert.Nil(t, bk.BestAsk())
	assert.Nil(t, bk.BestBid(), "market residual must not rest")
}

func TestArenaExhaustionDropsSubmit(t *testing.T) {
	e := newTestEngine(t, func(c *Config) { c.ArenaSize = 2 })

	e.SubmitOrder("AAPL", 1, 10, 100000, 100, book.Buy, book.Limit)
	e.SubmitOrder("AAPL", 2, 20, 99900, 100, book.Buy, book.Limit)
	e.SubmitOrder("AAPL", 3, 30, 99800, 100, book.Buy, book.Limit)

	assert.Equal(t, uint64(2), e.TotalOrders(), "dropped submit must not count")
	arenaDrops, _ := e.Drops()
	assert.Equal(t, uint64(1), arenaDrops)
	assert.Equal(t, 2, e.Book("AAPL").Orders())
}

func TestRingFullLosesReportsButKeepsBookAuthoritative(t *testing.T) {
	e := newTestEngine(t, func(c *Config) { c.RingSize = 2 })

	for id := uint64(1); id <= 4; id++ {
		e.SubmitOrder("AAPL", id, id*10, 100000, 10, book.Sell, book.Limit)
	}
	e.SubmitOrder("AAPL", 9, 90, 100000, 40, book.Buy, book.Limit)

	// Only two of four reports fit the ring.
	assert.Equal(t, uint64(2), e.TotalMatches())
	_, ringDrops := e.Drops()
	assert.Equal(t, uint64(1), ringDrops)

	// The book consumed everything regardless.
	bk := e.Book("AAPL")
	assert.Nil(t, bk.BestAsk())
	assert.Nil(t, bk.BestBid())
	assert.Equal(t, uint64(4), bk.Matches())
}

func TestCancelOrderBySymbol(t *testing.T) {
	e := newTestEngine(t)
	e.SubmitOrder("AAPL", 1, 10, 100000, 100, book.Buy, book.Limit)

	e.CancelOrder("AAPL", 1)
	assert.Equal(t, 0, e.Book("AAPL").Orders())

	// Unknown symbol and unknown id are silent no-ops.
	e.CancelOrder("MSFT", 1)
	e.CancelOrder("AAPL", 99)
}

func TestModifyOrderBySymbol(t *testing.T) {
	e := newTestEngine(t)
	e.SubmitOrder("AAPL", 1, 10, 100000, 100, book.Buy, book.Limit)

	e.ModifyOrder("AAPL", 1, 40)

	o, ok := e.Book("AAPL").Lookup(1)
	require.True(t, ok)
	assert.Equal(t, uint32(40), o.Remaining)

	e.ModifyOrder("AAPL", 1, 0)
	assert.Equal(t, 0, e.Book("AAPL").Orders())
}

func TestCancelByIDRoutesAcrossBooks(t *testing.T) {
	e := newTestEngine(t)
	e.SubmitOrder("AAPL", 1, 10, 100000, 100, book.Buy, book.Limit)
	e.SubmitOrder("MSFT", 2, 20, 200000, 100, book.Sell, book.Limit)

	e.CancelByID(2)

	assert.Equal(t, 1, e.Book("AAPL").Orders())
	assert.Equal(t, 0, e.Book("MSFT").Orders())

	e.CancelByID(2) // idempotent
	e.CancelByID(77)
}

func TestReduceByID(t *testing.T) {
	e := newTestEngine(t)
	e.SubmitOrder("AAPL", 1, 10, 100000, 100, book.Sell, book.Limit)

	e.ReduceByID(1, 30)
	o, ok := e.Book("AAPL").Lookup(1)
	require.True(t, ok)
	assert.Equal(t, uint32(70), o.Remaining)

	// Reducing past the remainder cancels.
	e.ReduceByID(1, 100)
	assert.Equal(t, 0, e.Book("AAPL").Orders())
}

func TestReplaceByIDKeepsSideAndBook(t *testing.T) {
	e := newTestEngine(t)
	e.SubmitOrder("AAPL", 1, 10, 100000, 100, book.Sell, book.Limit)

	e.ReplaceByID(1, 2, 60, 100200)

	bk := e.Book("AAPL")
	_, oldResting := bk.Lookup(1)
	assert.False(t, oldResting)
	o, ok := bk.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, book.Sell, o.Side)
	assert.Equal(t, uint32(100200), o.Price)
	assert.Equal(t, uint32(60), o.Remaining)

	// The replacement is routable by id too.
	e.CancelByID(2)
	assert.Equal(t, 0, bk.Orders())
}

func TestReplaceCanCrossImmediately(t *testing.T) {
	e := newTestEngine(t)
	e.SubmitOrder("AAPL", 1, 10, 100000, 50, book.Buy, book.Limit)
	e.SubmitOrder("AAPL", 2, 20, 100300, 50, book.Sell, book.Limit)

	// Repricing the ask onto the bid must trade.
	e.ReplaceByID(2, 3, 50, 100000)

	report, ok := e.Reports().Pop()
	require.True(t, ok)
	assert.Equal(t, uint64(3), report.OrderID)
	assert.Equal(t, uint32(100000), report.Price)
	assert.Equal(t, 0, e.Book("AAPL").Orders())
}

func TestStartStopFlag(t *testing.T) {
	e := newTestEngine(t)
	assert.False(t, e.IsRunning())
	e.Start()
	assert.True(t, e.IsRunning())
	e.Stop()
	assert.False(t, e.IsRunning())
}

func TestBooksAreCreatedLazily(t *testing.T) {
	e := newTestEngine(t)
	assert.Nil(t, e.Book("AAPL"))
	e.SubmitOrder("AAPL", 1, 10, 100000, 100, book.Buy, book.Limit)
	assert.NotNil(t, e.Book("AAPL"))
}

func BenchmarkSubmitOrder(b *testing.B) {
	cfg := DefaultConfig()
	cfg.ArenaSize = b.N + 1024
	e, err := New(cfg, zap.NewNop())
	if err != nil {
		b.Fatal(err)
	}
	defer e.Close()
	drain := e.Reports()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		side := book.Buy
		if i%2 != 0 {
			side = book.Sell
		}
		e.SubmitOrder("AAPL", uint64(i), uint64(i), uint32(1000000+(i%100)*100), uint32(100+i%900), side, book.Limit)
		for {
			if _, ok := drain.Pop(); !ok {
				break
			}
		}
	}
}
