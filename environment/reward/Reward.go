// Package reward implements the reward scheme for moving through a
// gridworld: base shaping from the destination cell, bonus cells,
// an optional goal-directed heuristic term, and optional running
// normalization.
package reward

import (
	"github.com/MJRobillard/q-learner-grid/config"
	"github.com/MJRobillard/q-learner-grid/environment/gridworld"
)

// Calculator maps a transition to a scalar reward. A Calculator holds
// running normalization statistics, so one instance belongs to exactly
// one environment and is reset together with it.
type Calculator struct {
	conf       config.Config
	grid       *gridworld.Grid
	normalizer *Normalizer
}

// NewCalculator creates a Calculator for the given grid. The grid must
// have been built from the same configuration.
func NewCalculator(conf config.Config, grid *gridworld.Grid) *Calculator {
	return &Calculator{
		conf:       conf,
		grid:       grid,
		normalizer: NewNormalizer(conf.NormalizationMethod),
	}
}

// Base computes the unshaped reward of entering the destination cell:
// the goal reward for the goal cell, the hazard reward for a hazard
// cell, and otherwise the step reward plus any bonus attached to the
// cell. Goal and hazard classification win over bonus lookups.
func (c *Calculator) Base(to gridworld.Position) float64 {
	switch c.grid.KindAt(to) {
	case gridworld.Goal:
		return c.conf.GoalReward
	case gridworld.Hazard:
		return c.conf.HazardReward
	default:
		return c.conf.StepReward + c.conf.BonusAt(to)
	}
}

// Evaluate computes the total reward of the transition from → to,
// applying the heuristic term and normalization when the configuration
// enables them.
func (c *Calculator) Evaluate(from, to gridworld.Position) float64 {
	r := c.Base(to)

	if c.conf.UseDirectionalHeuristics {
		r += heuristic(c.conf.HeuristicMethod, c.conf.HeuristicWeight,
			from, to, c.grid.Goal())
	}

	if c.conf.NormalizeRewards {
		r = c.normalizer.Normalize(r)
	}

	return r
}

// Reset clears the running normalization statistics
func (c *Calculator) Reset() {
	c.normalizer.Reset()
}
