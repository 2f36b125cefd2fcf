package reward

import (
	"math"

	"github.com/MJRobillard/q-learner-grid/config"
)

// Normalizer rescales a stream of rewards using running statistics.
// Each call to Normalize first folds the raw value into the running
// statistics, then rescales it against the statistics observed so far,
// so the output reflects running (not global) bounds at the time of
// the call.
//
// Statistics are kept as running sufficient statistics (bounds for
// min-max, Welford moments for z-score) so normalization stays O(1)
// per step regardless of training length.
type Normalizer struct {
	method config.NormalizationMethod

	// min-max running bounds
	seen bool
	min  float64
	max  float64

	// z-score running moments (Welford)
	count int
	mean  float64
	m2    float64
}

// NewNormalizer returns a Normalizer with empty statistics
func NewNormalizer(method config.NormalizationMethod) *Normalizer {
	return &Normalizer{method: method}
}

// Normalize records value and returns its normalized form. Cold starts
// and degenerate statistics (zero range, zero variance) resolve to 0
// rather than letting NaN or Inf propagate into value tables.
func (n *Normalizer) Normalize(value float64) float64 {
	switch n.method {
	case config.ZScore:
		return n.zScore(value)
	default:
		return n.minMax(value)
	}
}

func (n *Normalizer) minMax(value float64) float64 {
	if !n.seen {
		n.seen = true
		n.min = value
		n.max = value
	} else {
		n.min = math.Min(n.min, value)
		n.max = math.Max(n.max, value)
	}

	if n.max == n.min {
		return 0.0
	}
	return (value - n.min) / (n.max - n.min)
}

func (n *Normalizer) zScore(value float64) float64 {
	n.count++
	delta := value - n.mean
	n.mean += delta / float64(n.count)
	n.m2 += delta * (value - n.mean)

	if n.count < 2 {
		return 0.0
	}
	variance := n.m2 / float64(n.count)
	if variance <= 0 {
		return 0.0
	}
	return (value - n.mean) / math.Sqrt(variance)
}

// Reset clears all running statistics
func (n *Normalizer) Reset() {
	n.seen = false
	n.min = 0
	n.max = 0
	n.count = 0
	n.mean = 0
	n.m2 = 0
}
