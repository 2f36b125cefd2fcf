package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MJRobillard/q-learner-grid/config"
	"github.com/MJRobillard/q-learner-grid/environment/gridworld"
)

var (
	gridSize int
	start    string
	goal     string
	hazards  []string
	bonuses  []string

	learningRate   float64
	discountFactor float64
	epsilon        float64
	epsilonDecay   float64
	minEpsilon     float64

	goalReward   float64
	hazardReward float64
	stepReward   float64

	useHeuristics   bool
	heuristicWeight float64
	heuristicMethod string

	normalizeRewards    bool
	normalizationMethod string

	convergenceThreshold float64
	maxEpisodes          int
	maxStepsPerEpisode   int

	seed uint64
)

// AddFlags registers the configuration flags shared by every command
func AddFlags(cmd *cobra.Command) {
	defaults := config.Default()

	pf := cmd.PersistentFlags()
	pf.IntVar(&gridSize, "grid-size", defaults.GridSize, "Rows (= columns) of the grid")
	pf.StringVar(&start, "start", posString(defaults.StartPosition), "Start cell as row,col")
	pf.StringVar(&goal, "goal", posString(defaults.GoalPosition), "Goal cell as row,col")
	pf.StringSliceVar(&hazards, "hazard", nil, "Hazard cell as row,col (repeatable)")
	pf.StringSliceVar(&bonuses, "bonus", nil, "Bonus cell as row,col=reward (repeatable)")

	pf.Float64Var(&learningRate, "alpha", defaults.LearningRate, "Learning rate")
	pf.Float64Var(&discountFactor, "gamma", defaults.DiscountFactor, "Discount factor")
	pf.Float64Var(&epsilon, "epsilon", defaults.Epsilon, "Initial exploration rate")
	pf.Float64Var(&epsilonDecay, "epsilon-decay", defaults.EpsilonDecay, "Per-episode epsilon decay")
	pf.Float64Var(&minEpsilon, "min-epsilon", defaults.MinEpsilon, "Exploration rate floor")

	pf.Float64Var(&goalReward, "goal-reward", defaults.GoalReward, "Reward for reaching the goal")
	pf.Float64Var(&hazardReward, "hazard-reward", defaults.HazardReward, "Reward for entering a hazard")
	pf.Float64Var(&stepReward, "step-reward", defaults.StepReward, "Reward for an ordinary step")

	pf.BoolVar(&useHeuristics, "heuristics", defaults.UseDirectionalHeuristics, "Enable the goal-directed reward heuristic")
	pf.Float64Var(&heuristicWeight, "heuristic-weight", defaults.HeuristicWeight, "Weight of the heuristic term")
	pf.StringVar(&heuristicMethod, "heuristic-method", string(defaults.HeuristicMethod), "Distance metric: manhattan, euclidean, or chebyshev")

	pf.BoolVar(&normalizeRewards, "normalize", defaults.NormalizeRewards, "Enable running reward normalization")
	pf.StringVar(&normalizationMethod, "normalization-method", string(defaults.NormalizationMethod), "Normalization method: minmax or zscore")

	pf.Float64Var(&convergenceThreshold, "convergence", defaults.ConvergenceThreshold, "Average value-change threshold for early stopping")
	pf.IntVar(&maxEpisodes, "episodes", defaults.MaxEpisodes, "Maximum number of training episodes")
	pf.IntVar(&maxStepsPerEpisode, "max-steps", defaults.MaxStepsPerEpisode, "Maximum steps per episode")

	pf.Uint64Var(&seed, "seed", 192382, "Random seed")
}

// Configuration builds and validates the config.Config described by
// the flags
func Configuration() (config.Config, error) {
	conf := config.Default()
	conf.GridSize = gridSize
	conf.LearningRate = learningRate
	conf.DiscountFactor = discountFactor
	conf.Epsilon = epsilon
	conf.EpsilonDecay = epsilonDecay
	conf.MinEpsilon = minEpsilon
	conf.GoalReward = goalReward
	conf.HazardReward = hazardReward
	conf.StepReward = stepReward
	conf.UseDirectionalHeuristics = useHeuristics
	conf.HeuristicWeight = heuristicWeight
	conf.HeuristicMethod = config.HeuristicMethod(heuristicMethod)
	conf.NormalizeRewards = normalizeRewards
	conf.NormalizationMethod = config.NormalizationMethod(normalizationMethod)
	conf.ConvergenceThreshold = convergenceThreshold
	conf.MaxEpisodes = maxEpisodes
	conf.MaxStepsPerEpisode = maxStepsPerEpisode

	var err error
	if conf.StartPosition, err = parsePosition(start); err != nil {
		return conf, fmt.Errorf("--start: %w", err)
	}
	if conf.GoalPosition, err = parsePosition(goal); err != nil {
		return conf, fmt.Errorf("--goal: %w", err)
	}
	for _, h := range hazards {
		pos, err := parsePosition(h)
		if err != nil {
			return conf, fmt.Errorf("--hazard: %w", err)
		}
		conf.HazardPositions = append(conf.HazardPositions, pos)
	}
	for _, b := range bonuses {
		rp, err := parseRewardPosition(b)
		if err != nil {
			return conf, fmt.Errorf("--bonus: %w", err)
		}
		conf.RewardPositions = append(conf.RewardPositions, rp)
	}

	return conf, conf.Validate()
}

func posString(pos gridworld.Position) string {
	return fmt.Sprintf("%d,%d", pos.Row, pos.Col)
}

func parsePosition(s string) (gridworld.Position, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return gridworld.Position{}, fmt.Errorf("want row,col, got %q", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return gridworld.Position{}, fmt.Errorf("bad row in %q: %w", s, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return gridworld.Position{}, fmt.Errorf("bad col in %q: %w", s, err)
	}
	return gridworld.Position{Row: row, Col: col}, nil
}

func parseRewardPosition(s string) (config.RewardPosition, error) {
	parts := strings.Split(s, "=")
	if len(parts) != 2 {
		return config.RewardPosition{}, fmt.Errorf("want row,col=reward, "+
			"got %q", s)
	}
	pos, err := parsePosition(parts[0])
	if err != nil {
		return config.RewardPosition{}, err
	}
	r, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return config.RewardPosition{}, fmt.Errorf("bad reward in %q: %w",
			s, err)
	}
	return config.RewardPosition{Position: pos, Reward: r}, nil
}
