package reward

import (
	"math"

	"github.com/MJRobillard/q-learner-grid/config"
	"github.com/MJRobillard/q-learner-grid/environment/gridworld"
)

// Distance computes the distance between two positions under the given
// metric. Unknown methods fall back to Manhattan distance; the
// configuration validates the method before it ever reaches here.
func Distance(method config.HeuristicMethod, a, b gridworld.Position) float64 {
	dRow := math.Abs(float64(a.Row - b.Row))
	dCol := math.Abs(float64(a.Col - b.Col))

	switch method {
	case config.Euclidean:
		return math.Sqrt(dRow*dRow + dCol*dCol)
	case config.Chebyshev:
		return math.Max(dRow, dCol)
	default:
		return dRow + dCol
	}
}

// heuristic computes the goal-directed shaping term for a transition:
// (distance-to-goal from the source − distance-to-goal from the
// destination) × weight. Moving strictly closer to the goal yields a
// positive bonus, moving away a negative one, and lateral moves of
// equal distance yield zero.
func heuristic(method config.HeuristicMethod, weight float64,
	from, to, goal gridworld.Position) float64 {

	fromDist := Distance(method, from, goal)
	toDist := Distance(method, to, goal)
	return (fromDist - toDist) * weight
}
