package book

import "github.com/tidwall/btree"

const ladderDegree = 32

// ladder is one side's price index: an ordered map from price to level with
// a cached best pointer. The cache is refreshed inside the same call that
// mutates the map, so observers always see a consistent (map, best) pair.
//
// A B-tree keeps insert/find/remove at O(log m) over distinct prices and
// makes the extremum lookup cheap, which the plain BST this replaces could
// not guarantee under adversarial insert order.
type ladder struct {
	side   Side
	levels *btree.Map[uint32, *PriceLevel]
	best   *PriceLevel
	pool   []*PriceLevel // detached levels kept for reuse
}

func newLadder(side Side) ladder {
	return ladder{
		side:   side,
		levels: btree.NewMap[uint32, *PriceLevel](ladderDegree),
	}
}

// Best returns the cached best level: highest price for bids, lowest for asks.
func (ld *ladder) Best() *PriceLevel { return ld.best }

func (ld *ladder) find(price uint32) *PriceLevel {
	level, _ := ld.levels.Get(price)
	return level
}

// insert links a fresh empty level for the price and updates the best cache
// if the new price beats it.
func (ld *ladder) insert(price uint32) *PriceLevel {
	var level *PriceLevel
	if n := len(ld.pool); n > 0 {
		level = ld.pool[n-1]
		ld.pool = ld.pool[:n-1]
		*level = PriceLevel{Price: price}
	} else {
		level = &PriceLevel{Price: price}
	}
	ld.levels.Set(price, level)
	if ld.best == nil || ld.beats(price, ld.best.Price) {
		ld.best = level
	}
	return level
}

// remove detaches the level from the index. If it was the cached best the
// cache is recomputed from the new extremum.
func (ld *ladder) remove(level *PriceLevel) {
	ld.levels.Delete(level.Price)
	if level == ld.best {
		ld.refreshBest()
	}
	ld.pool = append(ld.pool, level)
}

func (ld *ladder) refreshBest() {
	var ok bool
	if ld.side == Buy {
		_, ld.best, ok = ld.levels.Max()
	} else {
		_, ld.best, ok = ld.levels.Min()
	}
	if !ok {
		ld.best = nil
	}
}

func (ld *ladder) beats(a, b uint32) bool {
	if ld.side == Buy {
		return a > b
	}
	return a < b
}

// totalVolume sums the aggregate volume over all levels on this side.
func (ld *ladder) totalVolume() uint64 {
	var volume uint64
	ld.levels.Scan(func(_ uint32, level *PriceLevel) bool {
		volume += uint64(level.TotalVolume)
		return true
	})
	return volume
}

// depth reports the number of distinct populated prices.
func (ld *ladder) depth() int { return ld.levels.Len() }
