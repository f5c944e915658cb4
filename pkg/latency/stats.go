// Package latency computes the percentile summary printed by the benchmark
// harness. Not intended for the engine hot path.
package latency

import "sort"

// Summary holds the latency distribution of one run, in the sample unit
// (nanoseconds for the harness).
type Summary struct {
	Count uint64
	Min   uint64
	Max   uint64
	Mean  uint64
	P50   uint64
	P95   uint64
	P99   uint64
	P999  uint64
}

// Summarize sorts a copy of the samples and extracts the summary. An empty
// input yields a zero Summary.
func Summarize(samples []uint64) Summary {
	var s Summary
	if len(samples) == 0 {
		return s
	}

	sorted := make([]uint64, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum uint64
	for _, v := range sorted {
		sum += v
	}

	s.Count = uint64(len(sorted))
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Mean = sum / uint64(len(sorted))
	s.P50 = percentile(sorted, 0.50)
	s.P95 = percentile(sorted, 0.95)
	s.P99 = percentile(sorted, 0.99)
	s.P999 = percentile(sorted, 0.999)
	return s
}

func percentile(sorted []uint64, p float64) uint64 {
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
