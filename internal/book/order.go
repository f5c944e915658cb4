// Cache-line sized order and execution records for the matching hot path.
// Orders live inside the engine arena and are threaded onto price-level
// FIFO queues through their intrusive links.

package book

// Side of an order.
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// Opposite returns the contra side.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderType distinguishes resting-capable limit orders from
// immediate market orders. Cancel exists for decoded feed commands
// that are routed to Cancel rather than Submit.
type OrderType uint8

const (
	Limit OrderType = iota
	Market
	Cancel
)

func (t OrderType) String() string {
	switch t {
	case Limit:
		return "limit"
	case Market:
		return "market"
	default:
		return "cancel"
	}
}

// Order is an arena-resident record. The struct is padded to exactly one
// 64-byte cache line so adjacent live orders never share a line.
//
// next/prev/level are owned by the price level the order currently rests
// in; they are nil whenever the order is not in a book.
type Order struct {
	ID        uint64
	Timestamp uint64 // ns since epoch, informational
	Price     uint32 // integer ticks
	Quantity  uint32
	Remaining uint32
	Side      Side
	Type      OrderType
	_         [2]byte

	next  *Order
	prev  *Order
	level *PriceLevel

	_ [8]byte
}

// Level returns the price level the order currently rests in, or nil.
func (o *Order) Level() *PriceLevel { return o.level }

// Next returns the order behind this one in its level's FIFO, or nil.
func (o *Order) Next() *Order { return o.next }

// ExecutionReport describes one (aggressor, passive) execution pair.
// POD, copied by value through the SPSC ring; padded to one cache line.
type ExecutionReport struct {
	OrderID   uint64 // aggressor
	MatchID   uint64 // monotonic per book
	Timestamp uint64 // aggressor's timestamp
	Price     uint32 // passive level price
	Quantity  uint32
	Side      Side // aggressor's side
	IsFull    bool // this fill reduces the aggressor to zero
	_         [30]byte
}
