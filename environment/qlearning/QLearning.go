// Package qlearning implements the Q-Learning gridworld environment.
//
// Q-Learning is off-policy: the update target bootstraps from the
// maximum action value of the successor state, regardless of which
// action the behaviour policy actually takes next. The max is taken
// only over actions valid from the successor state so that values near
// grid edges are not biased by out-of-bounds actions.
package qlearning

import (
	"gonum.org/v1/gonum/floats"

	"github.com/MJRobillard/q-learner-grid/agent/policy"
	"github.com/MJRobillard/q-learner-grid/config"
	"github.com/MJRobillard/q-learner-grid/environment/gridworld"
	"github.com/MJRobillard/q-learner-grid/environment/reward"
	"github.com/MJRobillard/q-learner-grid/timestep"
)

// MethodName is the factory discriminator for this environment
const MethodName = "qlearning"

// QLearning is a gridworld environment learning with the off-policy
// Q-Learning update rule. The value table lives in the grid's cells as
// a per-cell action-value mapping. A QLearning instance owns its grid,
// value table, and position exclusively; it is not safe for concurrent
// use.
type QLearning struct {
	conf      config.Config
	grid      *gridworld.Grid
	rewards   *reward.Calculator
	behaviour *policy.EGreedy
	greedy    *policy.EGreedy
	position  gridworld.Position
	seed      uint64

	episodes   int
	deltaSum   float64
	deltaCount int
}

// New creates a new QLearning environment from a validated
// configuration. All randomness flows from seed.
func New(conf config.Config, seed uint64) (*QLearning, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	grid, err := gridworld.New(conf.GridSize, conf.StartPosition,
		conf.GoalPosition, conf.HazardPositions)
	if err != nil {
		return nil, err
	}

	return &QLearning{
		conf:      conf,
		grid:      grid,
		rewards:   reward.NewCalculator(conf, grid),
		behaviour: policy.NewEGreedy(conf.Epsilon, seed),
		greedy:    policy.NewGreedy(seed),
		position:  conf.StartPosition,
		seed:      seed,
	}, nil
}

// Method returns the factory discriminator of the environment
func (q *QLearning) Method() string {
	return MethodName
}

// Step performs a single transition: epsilon-greedy action selection,
// reward computation, the Q-Learning value update, and the position
// move. The second return value is false when the current position is
// already terminal, in which case no transition is produced.
func (q *QLearning) Step() (timestep.StepResult, bool) {
	if q.grid.Terminal(q.position) {
		return timestep.StepResult{}, false
	}

	valid := q.grid.ValidActions(q.position)
	action := q.behaviour.SelectAction(q.values(q.position), valid)
	next := q.grid.NextPosition(q.position, action)
	r := q.rewards.Evaluate(q.position, next)

	// Q(s,a) ← Q(s,a) + α·[r + γ·max_{a'∈valid(s')} Q(s',a') − Q(s,a)]
	maxNext := 0.0
	if nextValid := q.grid.ValidActions(next); len(nextValid) > 0 {
		nextValues := q.values(next)
		maxNext = nextValues[nextValid[0]]
		for _, a := range nextValid[1:] {
			if v := nextValues[a]; v > maxNext {
				maxNext = v
			}
		}
	}

	cell := q.grid.CellAt(q.position)
	current := cell.Values[action]
	delta := q.conf.LearningRate *
		(r + q.conf.DiscountFactor*maxNext - current)
	cell.Values[action] = current + delta

	q.deltaSum += abs(delta)
	q.deltaCount++

	result := timestep.StepResult{
		From:        q.position,
		Action:      action,
		To:          next,
		Reward:      r,
		ReachedGoal: q.grid.IsGoal(next),
		HitHazard:   q.grid.IsHazard(next),
	}
	q.position = next

	return result, true
}

// RunEpisode runs a single episode from the start position until the
// goal, a hazard, or the per-episode step limit ends it
func (q *QLearning) RunEpisode() timestep.EpisodeResult {
	q.ResetPosition()
	q.deltaSum = 0
	q.deltaCount = 0

	result := timestep.EpisodeResult{
		Episode: q.episodes,
		History: make([]timestep.StepResult, 0, q.conf.MaxStepsPerEpisode),
	}

	for result.Steps < q.conf.MaxStepsPerEpisode {
		step, ok := q.Step()
		if !ok {
			break
		}
		result.Steps++
		result.TotalReward += step.Reward
		result.History = append(result.History, step)

		if step.Terminal() {
			result.ReachedGoal = step.ReachedGoal
			result.HitHazard = step.HitHazard
			break
		}
	}

	if q.deltaCount > 0 {
		result.AvgValueChange = q.deltaSum / float64(q.deltaCount)
	}
	q.episodes++

	return result
}

// Train runs up to MaxEpisodes episodes, decaying epsilon after each
// one and stopping early once the average absolute value change of an
// episode falls below the convergence threshold. The value table
// persists across episodes within the run; only the agent position is
// reset per episode.
func (q *QLearning) Train() []timestep.EpisodeResult {
	results := make([]timestep.EpisodeResult, 0, q.conf.MaxEpisodes)

	for i := 0; i < q.conf.MaxEpisodes; i++ {
		result := q.RunEpisode()
		results = append(results, result)
		q.EndEpisode()

		if result.AvgValueChange < q.conf.ConvergenceThreshold {
			break
		}
	}

	return results
}

// EndEpisode applies the per-episode epsilon decay
func (q *QLearning) EndEpisode() {
	q.behaviour.Decay(q.conf.EpsilonDecay, q.conf.MinEpsilon)
}

// Reset clears all learned values and running reward statistics,
// restores the initial exploration rate, and returns the agent to the
// start position. Calling Reset twice in a row yields the same
// all-zero value table both times.
func (q *QLearning) Reset() {
	q.grid.ZeroValues()
	q.rewards.Reset()
	q.behaviour.SetEpsilon(q.conf.Epsilon)
	q.position = q.conf.StartPosition
	q.episodes = 0
	q.deltaSum = 0
	q.deltaCount = 0
}

// ResetPosition returns the agent to the start position without
// touching learned values
func (q *QLearning) ResetPosition() {
	q.position = q.conf.StartPosition
}

// Grid returns the grid owned by the environment
func (q *QLearning) Grid() *gridworld.Grid {
	return q.grid
}

// CurrentPosition returns the agent's current position
func (q *QLearning) CurrentPosition() gridworld.Position {
	return q.position
}

// Config returns the environment's configuration snapshot
func (q *QLearning) Config() config.Config {
	return q.conf
}

// UpdateConfig replaces the configuration wholesale and reinitializes
// the grid, value table, and policy. An invalid configuration is
// rejected and the previous state kept.
func (q *QLearning) UpdateConfig(conf config.Config) error {
	if err := conf.Validate(); err != nil {
		return err
	}

	grid, err := gridworld.New(conf.GridSize, conf.StartPosition,
		conf.GoalPosition, conf.HazardPositions)
	if err != nil {
		return err
	}

	q.conf = conf
	q.grid = grid
	q.rewards = reward.NewCalculator(conf, grid)
	q.behaviour.SetEpsilon(conf.Epsilon)
	q.position = conf.StartPosition
	q.episodes = 0
	q.deltaSum = 0
	q.deltaCount = 0

	return nil
}

// Epsilon returns the current exploration rate
func (q *QLearning) Epsilon() float64 {
	return q.behaviour.Epsilon()
}

// QValues returns a copy of the action values at pos
func (q *QLearning) QValues(pos gridworld.Position) map[gridworld.Action]float64 {
	values := make(map[gridworld.Action]float64, gridworld.NumActions)
	for a, v := range q.values(pos) {
		values[a] = v
	}
	return values
}

// ValidActions returns the actions the environment offers from pos.
// Q-Learning offers every boundary-respecting action, including moves
// into hazard cells.
func (q *QLearning) ValidActions(pos gridworld.Position) []gridworld.Action {
	return q.grid.ValidActions(pos)
}

// BestValidAction returns the greedy action at pos, ties broken by
// canonical order
func (q *QLearning) BestValidAction(pos gridworld.Position) gridworld.Action {
	return q.greedy.SelectAction(q.values(pos), q.grid.ValidActions(pos))
}

// MaxValidQValue returns the highest action value among the valid
// actions at pos, or 0 for fully enclosed cells
func (q *QLearning) MaxValidQValue(pos gridworld.Position) float64 {
	valid := q.grid.ValidActions(pos)
	if len(valid) == 0 {
		return 0.0
	}
	values := q.values(pos)
	max := values[valid[0]]
	for _, a := range valid[1:] {
		if v := values[a]; v > max {
			max = v
		}
	}
	return max
}

// Policy returns the greedy action for every state, ties broken
// canonically
func (q *QLearning) Policy() map[gridworld.Position]gridworld.Action {
	actions := make(map[gridworld.Position]gridworld.Action)
	for r := 0; r < q.grid.Size(); r++ {
		for c := 0; c < q.grid.Size(); c++ {
			pos := gridworld.Position{Row: r, Col: c}
			actions[pos] = q.greedy.SelectAction(q.values(pos),
				q.grid.ValidActions(pos))
		}
	}
	return actions
}

// MinQValue returns the minimum value over the entire table
func (q *QLearning) MinQValue() float64 {
	return floats.Min(q.tableSlice())
}

// MaxQValue returns the maximum value over the entire table
func (q *QLearning) MaxQValue() float64 {
	return floats.Max(q.tableSlice())
}

// AverageQValue returns the mean value over the entire table
func (q *QLearning) AverageQValue() float64 {
	table := q.tableSlice()
	return floats.Sum(table) / float64(len(table))
}

// values returns the live value mapping of pos. Out-of-bounds
// positions read as all zero.
func (q *QLearning) values(pos gridworld.Position) map[gridworld.Action]float64 {
	cell := q.grid.CellAt(pos)
	if cell == nil {
		zero := make(map[gridworld.Action]float64, gridworld.NumActions)
		for _, a := range gridworld.Actions {
			zero[a] = 0.0
		}
		return zero
	}
	return cell.Values
}

// tableSlice flattens the value table in canonical cell-then-action
// order
func (q *QLearning) tableSlice() []float64 {
	size := q.grid.Size()
	table := make([]float64, 0, size*size*gridworld.NumActions)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			values := q.grid.CellAt(gridworld.Position{Row: r, Col: c}).Values
			for _, a := range gridworld.Actions {
				table = append(table, values[a])
			}
		}
	}
	return table
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
