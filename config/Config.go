// Package config implements the configuration for gridworld learning
// environments. Configurations are JSON serializable, immutable
// snapshots: environments replace them wholesale and reinitialize,
// never mutate them in place.
package config

import (
	"fmt"

	"github.com/MJRobillard/q-learner-grid/environment/gridworld"
)

// HeuristicMethod names the distance metric used by the directional
// reward heuristic
type HeuristicMethod string

const (
	Manhattan HeuristicMethod = "manhattan"
	Euclidean HeuristicMethod = "euclidean"
	Chebyshev HeuristicMethod = "chebyshev"
)

// NormalizationMethod names how running reward normalization is
// performed
type NormalizationMethod string

const (
	MinMax NormalizationMethod = "minmax"
	ZScore NormalizationMethod = "zscore"
)

// RewardPosition is a bonus reward attached to a single cell,
// independent of the terminal goal reward. The bonus is added to the
// step reward when the cell is entered; goal and hazard cells are
// classified before any bonus lookup.
type RewardPosition struct {
	Position gridworld.Position `json:"position"`
	Reward   float64            `json:"reward"`
}

// Config is the full set of tunable parameters for a learning
// environment. Construct one with Default() and override fields before
// calling Validate(); every numeric field always holds a concrete
// value so nothing maybe-unset reaches the update rules.
type Config struct {
	GridSize        int                         `json:"gridSize"`
	StartPosition   gridworld.Position          `json:"startPosition"`
	GoalPosition    gridworld.Position          `json:"goalPosition"`
	HazardPositions []gridworld.Position        `json:"hazardPositions"`
	RewardPositions []RewardPosition            `json:"rewardPositions,omitempty"`

	LearningRate   float64 `json:"learningRate"`
	DiscountFactor float64 `json:"discountFactor"`
	Epsilon        float64 `json:"epsilon"`
	EpsilonDecay   float64 `json:"epsilonDecay"`
	MinEpsilon     float64 `json:"minEpsilon"`

	GoalReward   float64 `json:"goalReward"`
	HazardReward float64 `json:"hazardReward"`
	StepReward   float64 `json:"stepReward"`

	UseDirectionalHeuristics bool            `json:"useDirectionalHeuristics"`
	HeuristicWeight          float64         `json:"heuristicWeight"`
	HeuristicMethod          HeuristicMethod `json:"heuristicMethod"`

	NormalizeRewards    bool                `json:"normalizeRewards"`
	NormalizationMethod NormalizationMethod `json:"normalizationMethod"`

	ConvergenceThreshold float64 `json:"convergenceThreshold"`
	MaxEpisodes          int     `json:"maxEpisodes"`
	MaxStepsPerEpisode   int     `json:"maxStepsPerEpisode"`
}

// Default returns a fully-populated configuration: a 5x5 grid with the
// start in the top-left corner, the goal in the bottom-right corner,
// and no hazards or bonus cells.
func Default() Config {
	return Config{
		GridSize:      5,
		StartPosition: gridworld.Position{Row: 0, Col: 0},
		GoalPosition:  gridworld.Position{Row: 4, Col: 4},

		LearningRate:   0.1,
		DiscountFactor: 0.9,
		Epsilon:        0.1,
		EpsilonDecay:   0.99,
		MinEpsilon:     0.01,

		GoalReward:   10.0,
		HazardReward: -10.0,
		StepReward:   -1.0,

		HeuristicWeight: 1.0,
		HeuristicMethod: Manhattan,

		NormalizationMethod: MinMax,

		ConvergenceThreshold: 0.001,
		MaxEpisodes:          500,
		MaxStepsPerEpisode:   200,
	}
}

// Validate ensures that the Config is valid. Environments reject
// invalid configurations at construction and update time rather than
// producing corrupt grids.
func (c Config) Validate() error {
	if c.GridSize < 2 {
		return fmt.Errorf("config: grid size must be at least 2, got %d",
			c.GridSize)
	}
	if !c.inBounds(c.StartPosition) {
		return fmt.Errorf("config: start position %v out of bounds [0, %d)",
			c.StartPosition, c.GridSize)
	}
	if !c.inBounds(c.GoalPosition) {
		return fmt.Errorf("config: goal position %v out of bounds [0, %d)",
			c.GoalPosition, c.GridSize)
	}
	if c.StartPosition == c.GoalPosition {
		return fmt.Errorf("config: start and goal are both %v",
			c.StartPosition)
	}
	for _, h := range c.HazardPositions {
		if !c.inBounds(h) {
			return fmt.Errorf("config: hazard position %v out of bounds "+
				"[0, %d)", h, c.GridSize)
		}
		if h == c.StartPosition || h == c.GoalPosition {
			return fmt.Errorf("config: hazard position %v overlaps the "+
				"start or goal cell", h)
		}
	}
	for _, r := range c.RewardPositions {
		if !c.inBounds(r.Position) {
			return fmt.Errorf("config: reward position %v out of bounds "+
				"[0, %d)", r.Position, c.GridSize)
		}
	}

	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("config: learning rate must be in (0, 1], got %v",
			c.LearningRate)
	}
	if c.DiscountFactor < 0 || c.DiscountFactor > 1 {
		return fmt.Errorf("config: discount factor must be in [0, 1], "+
			"got %v", c.DiscountFactor)
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("config: epsilon must be in [0, 1], got %v",
			c.Epsilon)
	}
	if c.EpsilonDecay <= 0 || c.EpsilonDecay > 1 {
		return fmt.Errorf("config: epsilon decay must be in (0, 1], got %v",
			c.EpsilonDecay)
	}
	if c.MinEpsilon < 0 {
		return fmt.Errorf("config: minimum epsilon cannot be negative, "+
			"got %v", c.MinEpsilon)
	}

	if c.UseDirectionalHeuristics {
		switch c.HeuristicMethod {
		case Manhattan, Euclidean, Chebyshev:
		default:
			return fmt.Errorf("config: unknown heuristic method %q",
				c.HeuristicMethod)
		}
	}
	if c.NormalizeRewards {
		switch c.NormalizationMethod {
		case MinMax, ZScore:
		default:
			return fmt.Errorf("config: unknown normalization method %q",
				c.NormalizationMethod)
		}
	}

	if c.ConvergenceThreshold < 0 {
		return fmt.Errorf("config: convergence threshold cannot be "+
			"negative, got %v", c.ConvergenceThreshold)
	}
	if c.MaxEpisodes <= 0 {
		return fmt.Errorf("config: max episodes must be positive, got %d",
			c.MaxEpisodes)
	}
	if c.MaxStepsPerEpisode <= 0 {
		return fmt.Errorf("config: max steps per episode must be positive, "+
			"got %d", c.MaxStepsPerEpisode)
	}

	return nil
}

// BonusAt returns the bonus reward attached to pos, summing bonuses of
// every RewardPosition exactly matching pos
func (c Config) BonusAt(pos gridworld.Position) float64 {
	bonus := 0.0
	for _, r := range c.RewardPositions {
		if r.Position == pos {
			bonus += r.Reward
		}
	}
	return bonus
}

func (c Config) inBounds(pos gridworld.Position) bool {
	return pos.Row >= 0 && pos.Row < c.GridSize && pos.Col >= 0 &&
		pos.Col < c.GridSize
}
