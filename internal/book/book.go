// Package book implements a single-symbol limit order book with strict
// price-time priority. All mutating calls must come from one goroutine;
// the book itself takes no locks.
package book

// Book composes the two price ladders with the order-id index and the
// per-book monotonic match counter.
type Book struct {
	symbol  string
	bids    ladder
	asks    ladder
	orders  map[uint64]*Order
	matchID uint64
}

// New creates an empty book for the symbol.
func New(symbol string) *Book {
	return &Book{
		symbol: symbol,
		bids:   newLadder(Buy),
		asks:   newLadder(Sell),
		orders: make(map[uint64]*Order, 1024),
	}
}

// Symbol returns the trading symbol this book serves.
func (b *Book) Symbol() string { return b.symbol }

// BestBid returns the highest populated bid level, or nil.
func (b *Book) BestBid() *PriceLevel { return b.bids.Best() }

// BestAsk returns the lowest populated ask level, or nil.
func (b *Book) BestAsk() *PriceLevel { return b.asks.Best() }

// Spread returns best ask minus best bid, or 0 when either side is empty.
func (b *Book) Spread() uint32 {
	bid, ask := b.bids.Best(), b.asks.Best()
	if bid == nil || ask == nil {
		return 0
	}
	return ask.Price - bid.Price
}

// Lookup returns the resting order with the given id, if any.
func (b *Book) Lookup(id uint64) (*Order, bool) {
	o, ok := b.orders[id]
	return o, ok
}

// Orders returns the number of orders currently resting in the book.
func (b *Book) Orders() int { return len(b.orders) }

// Matches returns the number of executions this book has generated.
func (b *Book) Matches() uint64 { return b.matchID }

// TotalBidVolume sums remaining quantity across all bid levels.
func (b *Book) TotalBidVolume() uint64 { return b.bids.totalVolume() }

// TotalAskVolume sums remaining quantity across all ask levels.
func (b *Book) TotalAskVolume() uint64 { return b.asks.totalVolume() }

// BidDepth returns the number of populated bid prices.
func (b *Book) BidDepth() int { return b.bids.depth() }

// AskDepth returns the number of populated ask prices.
func (b *Book) AskDepth() int { return b.asks.depth() }

func (b *Book) side(s Side) *ladder {
	if s == Buy {
		return &b.bids
	}
	return &b.asks
}

// Add rests a limit order without attempting to match. The caller decides
// marketability; Add only finds or creates the level, appends in FIFO order
// and registers the id.
func (b *Book) Add(o *Order) {
	ld := b.side(o.Side)
	level := ld.find(o.Price)
	if level == nil {
		level = ld.insert(o.Price)
	}
	level.Append(o)
	b.orders[o.ID] = o
}

// CancelOrder detaches the order from its level and drops empty levels,
// refreshing the side's best as needed. Unknown ids are a silent no-op:
// feeds routinely reference orders the engine never saw.
// Reports whether an order was removed.
func (b *Book) CancelOrder(id uint64) bool {
	o, ok := b.orders[id]
	if !ok {
		return false
	}
	level := o.level
	ld := b.side(o.Side)
	level.Detach(o)
	if level.OrderCount == 0 {
		ld.remove(level)
	}
	delete(b.orders, id)
	return true
}

// ModifyOrder adjusts a resting order's remaining quantity in place, keeping
// its position in the level FIFO. A modify to zero cancels the order, since
// a zero-remaining resident would break the level volume invariant.
// Unknown ids are a silent no-op.
func (b *Book) ModifyOrder(id uint64, newRemaining uint32) {
	o, ok := b.orders[id]
	if !ok {
		return
	}
	if newRemaining == 0 {
		b.CancelOrder(id)
		return
	}
	level := o.level
	level.TotalVolume -= o.Remaining
	o.Remaining = newRemaining
	level.TotalVolume += newRemaining
}

// Match walks the contra side in price-then-time order, filling the
// aggressor against resting liquidity until it is exhausted or no further
// level crosses. Reports are appended to the provided slice and returned.
//
// Trades always print at the passive level's price. The IsFull flag
// describes the aggressor at the moment of the emit: true iff that fill
// reduces the aggressor to zero.
func (b *Book) Match(agg *Order, reports []ExecutionReport) []ExecutionReport {
	if agg.Type != Limit && agg.Type != Market {
		return reports
	}

	contra := b.side(agg.Side.Opposite())
	level := contra.Best()

	for agg.Remaining > 0 && level != nil {
		if agg.Type == Limit {
			if agg.Side == Buy && agg.Price < level.Price {
				break
			}
			if agg.Side == Sell && agg.Price > level.Price {
				break
			}
		}

		passive := level.head
		for passive != nil && agg.Remaining > 0 {
			qty := min(agg.Remaining, passive.Remaining)

			b.matchID++
			reports = append(reports, ExecutionReport{
				OrderID:   agg.ID,
				MatchID:   b.matchID,
				Timestamp: agg.Timestamp,
				Price:     level.Price,
				Quantity:  qty,
				Side:      agg.Side,
				IsFull:    agg.Remaining == qty,
			})

			agg.Remaining -= qty
			passive.Remaining -= qty
			level.TotalVolume -= qty

			next := passive.next
			if passive.Remaining == 0 {
				level.Detach(passive)
				delete(b.orders, passive.ID)
			}
			passive = next
		}

		if level.OrderCount != 0 {
			// Aggressor exhausted mid-level.
			break
		}
		contra.remove(level)
		level = contra.Best()
	}

	return reports
}
