// Package engine is the single-threaded front end over the per-symbol
// books: it owns the order arena, routes commands, classifies aggressors
// and hands execution reports to the consumer through one SPSC ring.
//
// All submit/cancel/modify calls must come from one goroutine. The ring is
// the only shared-memory boundary; the statistics counters may be read from
// other goroutines for monitoring.
package engine

import (
	"runtime"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/matchgate/matchgate/internal/book"
	"github.com/matchgate/matchgate/internal/platform"
	"github.com/matchgate/matchgate/internal/spsc"
	"github.com/matchgate/matchgate/pkg/metrics"
)

// dropLogEvery throttles arena/ring drop logging: one line per this many
// occurrences, so a saturated run does not flood the log.
const dropLogEvery = 100_000

// Config sizes the engine's pre-allocated resources. Placement knobs are -1
// when disabled.
type Config struct {
	ArenaSize   int
	RingSize    int
	SymbolsHint int
	CPUCore     int
	NUMANode    int
	HugePages   bool
}

// DefaultConfig returns the sizing used by the benchmark harness.
func DefaultConfig() Config {
	return Config{
		ArenaSize:   1 << 20,
		RingSize:    1 << 16,
		SymbolsHint: 256,
		CPUCore:     -1,
		NUMANode:    -1,
	}
}

// Engine owns the books and the arena for the process lifetime.
type Engine struct {
	cfg   Config
	log   *zap.Logger
	arena *Arena

	books map[string]*book.Book
	// byID routes symbol-less wire cancels (ITCH 'X'/'D'/'U') to the book
	// that holds the order. Entries for orders consumed by matching are
	// cleaned lazily: a stale entry still points at the right book, where
	// the cancel is a no-op.
	byID map[uint64]*book.Book

	reports *spsc.Ring[book.ExecutionReport]
	scratch []book.ExecutionReport

	ordersBuy  prometheus.Counter
	ordersSell prometheus.Counter

	totalOrders  atomic.Uint64
	totalMatches atomic.Uint64
	arenaDrops   uint64
	ringDrops    uint64

	running atomic.Bool
}

// New builds an engine: binds the NUMA node and pins the core when
// configured, then pre-allocates the arena and the report ring.
func New(cfg Config, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.NUMANode >= 0 {
		if err := platform.BindNUMANode(cfg.NUMANode); err != nil {
			log.Warn("numa bind failed", zap.Int("node", cfg.NUMANode), zap.Error(err))
		} else {
			log.Info("bound to numa node", zap.Int("node", cfg.NUMANode))
		}
	}
	if cfg.CPUCore >= 0 {
		runtime.LockOSThread()
		if err := platform.PinToCore(cfg.CPUCore); err != nil {
			log.Warn("core pin failed", zap.Int("core", cfg.CPUCore), zap.Error(err))
		} else {
			log.Info("pinned to core", zap.Int("core", cfg.CPUCore))
		}
	}

	arena, err := NewArena(cfg.ArenaSize, cfg.HugePages)
	if err != nil {
		return nil, err
	}
	ring, err := spsc.New[book.ExecutionReport](cfg.RingSize)
	if err != nil {
		arena.Close()
		return nil, err
	}

	hint := cfg.SymbolsHint
	if hint <= 0 {
		hint = 16
	}

	e := &Engine{
		cfg:        cfg,
		log:        log,
		arena:      arena,
		books:      make(map[string]*book.Book, hint),
		byID:       make(map[uint64]*book.Book, 1024),
		reports:    ring,
		scratch:    make([]book.ExecutionReport, 0, 256),
		ordersBuy:  metrics.OrdersProcessed.WithLabelValues(book.Buy.String()),
		ordersSell: metrics.OrdersProcessed.WithLabelValues(book.Sell.String()),
	}
	log.Info("engine initialized",
		zap.Int("arena_size", cfg.ArenaSize),
		zap.Int("ring_size", cfg.RingSize),
		zap.Bool("huge_pages", cfg.HugePages))
	return e, nil
}

// SubmitOrder routes one decoded order command. Market orders and crossing
// limits match immediately; limit residuals rest on the book.
func (e *Engine) SubmitOrder(symbol string, id, ts uint64, price, qty uint32, side book.Side, typ book.OrderType) {
	e.submit(e.bookFor(symbol), id, ts, price, qty, side, typ)
}

func (e *Engine) submit(bk *book.Book, id, ts uint64, price, qty uint32, side book.Side, typ book.OrderType) {
	o, err := e.arena.Alloc()
	if err != nil {
		e.arenaDrops++
		metrics.ArenaDrops.Inc()
		if e.arenaDrops%dropLogEvery == 1 {
			e.log.Error("order arena exhausted, dropping submit",
				zap.Uint64("order_id", id),
				zap.Uint64("dropped", e.arenaDrops))
		}
		return
	}
	*o = book.Order{
		ID:        id,
		Timestamp: ts,
		Price:     price,
		Quantity:  qty,
		Remaining: qty,
		Side:      side,
		Type:      typ,
	}

	if e.isAggressive(bk, o) {
		e.scratch = bk.Match(o, e.scratch[:0])
		for _, report := range e.scratch {
			if !e.reports.Push(report) {
				e.ringDrops++
				metrics.RingDrops.Inc()
				if e.ringDrops%dropLogEvery == 1 {
					e.log.Warn("report ring full, dropping reports",
						zap.Uint64("dropped", e.ringDrops))
				}
				break
			}
			e.totalMatches.Add(1)
			metrics.MatchesTotal.Inc()
		}
	}

	if typ == book.Limit && o.Remaining > 0 {
		bk.Add(o)
		e.byID[id] = bk
	}

	e.totalOrders.Add(1)
	if side == book.Buy {
		e.ordersBuy.Inc()
	} else {
		e.ordersSell.Inc()
	}
}

// isAggressive reports whether the order would trade on arrival: a market
// order always, a limit order iff the contra best exists and crosses it.
func (e *Engine) isAggressive(bk *book.Book, o *book.Order) bool {
	if o.Type == book.Market {
		return true
	}
	if o.Type != book.Limit {
		return false
	}
	if o.Side == book.Buy {
		ask := bk.BestAsk()
		return ask != nil && o.Price >= ask.Price
	}
	bid := bk.BestBid()
	return bid != nil && o.Price <= bid.Price
}

// CancelOrder cancels a resting order on the named symbol's book. Unknown
// symbols and ids are silent no-ops.
func (e *Engine) CancelOrder(symbol string, id uint64) {
	if bk, ok := e.books[symbol]; ok {
		if bk.CancelOrder(id) {
			delete(e.byID, id)
		}
	}
}

// ModifyOrder sets a resting order's remaining quantity in place, without
// loss of time priority. Zero cancels. Unknown symbols and ids are silent
// no-ops.
func (e *Engine) ModifyOrder(symbol string, id uint64, newRemaining uint32) {
	bk, ok := e.books[symbol]
	if !ok {
		return
	}
	bk.ModifyOrder(id, newRemaining)
	if _, resting := bk.Lookup(id); !resting {
		delete(e.byID, id)
	}
}

// CancelByID cancels an order located through the id routing map, for wire
// protocols that do not carry the symbol on cancel.
func (e *Engine) CancelByID(id uint64) {
	bk, ok := e.byID[id]
	if !ok {
		return
	}
	bk.CancelOrder(id)
	delete(e.byID, id)
}

// ReduceByID lowers an order's remaining quantity by the given amount;
// reducing to or past zero cancels it.
func (e *Engine) ReduceByID(id uint64, by uint32) {
	bk, ok := e.byID[id]
	if !ok {
		return
	}
	o, resting := bk.Lookup(id)
	if !resting {
		delete(e.byID, id)
		return
	}
	if by >= o.Remaining {
		bk.CancelOrder(id)
		delete(e.byID, id)
		return
	}
	bk.ModifyOrder(id, o.Remaining-by)
}

// ReplaceByID implements cancel+add on the same book: the old order is
// removed and a fresh limit order with the new id, quantity and price goes
// through the normal submit path, keeping the original side.
func (e *Engine) ReplaceByID(oldID, newID uint64, qty, price uint32) {
	bk, ok := e.byID[oldID]
	if !ok {
		return
	}
	o, resting := bk.Lookup(oldID)
	if !resting {
		delete(e.byID, oldID)
		return
	}
	side := o.Side
	bk.CancelOrder(oldID)
	delete(e.byID, oldID)
	e.submit(bk, newID, platform.NowNanos(), price, qty, side, book.Limit)
}

func (e *Engine) bookFor(symbol string) *book.Book {
	bk, ok := e.books[symbol]
	if !ok {
		bk = book.New(symbol)
		e.books[symbol] = bk
	}
	return bk
}

// Book returns the book for a symbol, or nil if none exists yet.
func (e *Engine) Book(symbol string) *book.Book {
	return e.books[symbol]
}

// Reports returns the execution report ring; the consumer side belongs to
// exactly one goroutine.
func (e *Engine) Reports() *spsc.Ring[book.ExecutionReport] {
	return e.reports
}

// TotalOrders returns the number of submits accepted (including matched and
// discarded orders, excluding arena drops).
func (e *Engine) TotalOrders() uint64 { return e.totalOrders.Load() }

// TotalMatches returns the number of execution reports delivered to the ring.
func (e *Engine) TotalMatches() uint64 { return e.totalMatches.Load() }

// Drops returns the arena and ring drop counts.
func (e *Engine) Drops() (arena, ring uint64) { return e.arenaDrops, e.ringDrops }

// Arena exposes the order arena for capacity monitoring.
func (e *Engine) Arena() *Arena { return e.arena }

// Start flips the running flag. The caller drives submission; no threads
// are spawned.
func (e *Engine) Start() { e.running.Store(true) }

// Stop flips the running flag.
func (e *Engine) Stop() { e.running.Store(false) }

// IsRunning reports the lifecycle flag.
func (e *Engine) IsRunning() bool { return e.running.Load() }

// Close releases the arena. The engine must not be used afterwards.
func (e *Engine) Close() error {
	e.Stop()
	return e.arena.Close()
}
