// Package display renders engine quantities for humans. Prices are integer
// ticks with an implicit 4-decimal scale.
package display

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const tickDecimals = 4

// Price renders a tick price as a fixed 4-decimal string, e.g. 1000000
// ticks -> "100.0000".
func Price(ticks uint32) string {
	return decimal.New(int64(ticks), -tickDecimals).StringFixed(tickDecimals)
}

// Duration renders a nanosecond span with a unit matched to its magnitude.
func Duration(ns uint64) string {
	switch {
	case ns < 1_000:
		return fmt.Sprintf("%d ns", ns)
	case ns < 1_000_000:
		return fmt.Sprintf("%.3f µs", float64(ns)/1e3)
	case ns < 1_000_000_000:
		return fmt.Sprintf("%.3f ms", float64(ns)/1e6)
	default:
		return fmt.Sprintf("%.3f s", float64(ns)/1e9)
	}
}
