package panel

import (
	"fmt"

	"modelboard/internal/api"
)

// Stats is the summary derived from a metrics snapshot.
type Stats struct {
	TotalRequests      int
	TotalInputTokens   int
	TotalOutputTokens  int
	AvgTokensPerSecond float64
}

// Aggregate derives summary counters from a metrics snapshot. An empty
// snapshot yields all four values as zero; the average is defined as the
// literal 0 in that case, not computed as 0/0.
func Aggregate(entries []api.MetricEntry) Stats {
	var s Stats
	s.TotalRequests = len(entries)
	if s.TotalRequests == 0 {
		return s
	}
	var tps float64
	for _, e := range entries {
		s.TotalInputTokens += e.InputTokens
		s.TotalOutputTokens += e.OutputTokens
		tps += e.TokensPerSecond
	}
	s.AvgTokensPerSecond = tps / float64(s.TotalRequests)
	return s
}

// AvgFormatted renders the mean throughput with exactly two decimals.
func (s Stats) AvgFormatted() string {
	return fmt.Sprintf("%.2f", s.AvgTokensPerSecond)
}
