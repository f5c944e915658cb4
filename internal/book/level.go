package book

// PriceLevel aggregates all resting orders at one exact price on one side.
// Orders form an intrusive doubly-linked FIFO: head is the oldest order and
// the next to fill, appends go to the tail.
type PriceLevel struct {
	Price       uint32
	TotalVolume uint32 // sum of Remaining over members
	OrderCount  uint32

	head *Order
	tail *Order
}

// Head returns the oldest order at this level, or nil when empty.
func (l *PriceLevel) Head() *Order { return l.head }

// Tail returns the newest order at this level, or nil when empty.
func (l *PriceLevel) Tail() *Order { return l.tail }

// Append splices the order onto the tail of the FIFO. The order must carry
// this level's price and must not already rest in any level.
func (l *PriceLevel) Append(o *Order) {
	if o.Price != l.Price || o.level != nil {
		panic("book: append of foreign or already-resting order")
	}
	o.level = l
	o.next = nil
	o.prev = l.tail
	if l.tail != nil {
		l.tail.next = o
	} else {
		l.head = o
	}
	l.tail = o
	l.TotalVolume += o.Remaining
	l.OrderCount++
}

// Detach unlinks the order and clears its links and parent reference.
// The order must currently rest in this level.
func (l *PriceLevel) Detach(o *Order) {
	if o.level != l {
		panic("book: detach from non-parent level")
	}
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	l.TotalVolume -= o.Remaining
	l.OrderCount--
	o.level = nil
	o.next = nil
	o.prev = nil
}
