package intent

import (
	"fmt"

	"github.com/loquilabs/loqui/text"
	"github.com/montanaflynn/stats"
)

// Stats summarizes the shape of a dataset.
type Stats struct {
	Intents     int
	Patterns    int
	TokensMean  float64
	TokensP50   float64
	TokensP95   float64
	TokensMax   int
	EmptyTokens int // patterns that tokenize to nothing
}

// ComputeStats tokenizes every pattern and aggregates token-count statistics.
func ComputeStats(ds Dataset) Stats {
	s := Stats{Intents: len(ds.Intents)}
	var lengths []float64
	for _, in := range ds.Intents {
		for _, p := range in.Patterns {
			s.Patterns++
			n := len(text.Tokenize(p))
			if n == 0 {
				s.EmptyTokens++
			}
			if n > s.TokensMax {
				s.TokensMax = n
			}
			lengths = append(lengths, float64(n))
		}
	}
	if len(lengths) > 0 {
		s.TokensMean, _ = stats.Mean(lengths)
		s.TokensP50, _ = stats.Median(lengths)
		s.TokensP95, _ = stats.Percentile(lengths, 95)
	}
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("%d intents, %d patterns, tokens/pattern mean=%.1f p50=%.0f p95=%.0f max=%d",
		s.Intents, s.Patterns, s.TokensMean, s.TokensP50, s.TokensP95, s.TokensMax)
}
