// Package sarsa implements the SARSA gridworld environment.
//
// SARSA is on-policy: the next action is chosen before the value
// update, using the same epsilon-greedy policy applied to the
// successor state, and that committed action is the one actually taken
// on the following step. The update bootstraps from the value of the
// chosen action, not the maximum.
//
// Unlike the Q-Learning environment, SARSA's action selection excludes
// moves that land on a hazard cell. The asymmetry is deliberate and
// observable: it changes comparative experiments between the two
// algorithms and must not be "fixed".
package sarsa

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/MJRobillard/q-learner-grid/agent/policy"
	"github.com/MJRobillard/q-learner-grid/config"
	"github.com/MJRobillard/q-learner-grid/environment/gridworld"
	"github.com/MJRobillard/q-learner-grid/environment/reward"
	"github.com/MJRobillard/q-learner-grid/timestep"
)

// MethodName is the factory discriminator for this environment
const MethodName = "sarsa"

// Sarsa is a gridworld environment learning with the on-policy SARSA
// update rule. The value table is stored densely as a flat vector
// indexed by (row*size+col)*4 + action; the storage choice is an
// implementation detail and produces the same semantics as the
// per-cell mapping used by the Q-Learning environment.
type Sarsa struct {
	conf      config.Config
	grid      *gridworld.Grid
	rewards   *reward.Calculator
	behaviour *policy.EGreedy
	greedy    *policy.EGreedy
	table     *mat.VecDense
	position  gridworld.Position
	seed      uint64

	// on-policy commitment carried from one step to the next
	nextAction gridworld.Action
	committed  bool

	episodes   int
	deltaSum   float64
	deltaCount int
}

// New creates a new Sarsa environment from a validated configuration.
// All randomness flows from seed.
func New(conf config.Config, seed uint64) (*Sarsa, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	grid, err := gridworld.New(conf.GridSize, conf.StartPosition,
		conf.GoalPosition, conf.HazardPositions)
	if err != nil {
		return nil, err
	}

	size := conf.GridSize
	return &Sarsa{
		conf:      conf,
		grid:      grid,
		rewards:   reward.NewCalculator(conf, grid),
		behaviour: policy.NewEGreedy(conf.Epsilon, seed),
		greedy:    policy.NewGreedy(seed),
		table:     mat.NewVecDense(size*size*gridworld.NumActions, nil),
		position:  conf.StartPosition,
		seed:      seed,
	}, nil
}

// Method returns the factory discriminator of the environment
func (s *Sarsa) Method() string {
	return MethodName
}

// index maps a state-action pair into the flat value table
func (s *Sarsa) index(pos gridworld.Position, a gridworld.Action) int {
	return (pos.Row*s.conf.GridSize+pos.Col)*gridworld.NumActions + int(a)
}

func (s *Sarsa) value(pos gridworld.Position, a gridworld.Action) float64 {
	if !s.grid.InBounds(pos) {
		return 0.0
	}
	return s.table.AtVec(s.index(pos, a))
}

// Step performs a single transition. The action taken is the one
// committed on the previous step when a commitment exists; otherwise
// it is chosen fresh with the epsilon-greedy policy. Before the value
// update, the next action is selected for the successor state and
// carried forward. The second return value is false when the current
// position is already terminal.
func (s *Sarsa) Step() (timestep.StepResult, bool) {
	if s.grid.Terminal(s.position) {
		return timestep.StepResult{}, false
	}

	var action gridworld.Action
	if s.committed {
		action = s.nextAction
	} else {
		action = s.behaviour.SelectAction(s.values(s.position),
			s.grid.SafeActions(s.position))
	}

	next := s.grid.NextPosition(s.position, action)
	r := s.rewards.Evaluate(s.position, next)

	// Choose a' for the successor state before updating, and commit
	// to it for the following step.
	// Q(s,a) ← Q(s,a) + α·[r + γ·Q(s',a') − Q(s,a)]
	nextValid := s.grid.SafeActions(next)
	chosen := s.behaviour.SelectAction(s.values(next), nextValid)
	nextValue := 0.0
	if len(nextValid) > 0 && !s.grid.Terminal(next) {
		nextValue = s.value(next, chosen)
	}

	idx := s.index(s.position, action)
	current := s.table.AtVec(idx)
	delta := s.conf.LearningRate *
		(r + s.conf.DiscountFactor*nextValue - current)
	s.table.SetVec(idx, current+delta)

	s.deltaSum += abs(delta)
	s.deltaCount++

	result := timestep.StepResult{
		From:        s.position,
		Action:      action,
		To:          next,
		Reward:      r,
		ReachedGoal: s.grid.IsGoal(next),
		HitHazard:   s.grid.IsHazard(next),
	}

	s.position = next
	s.nextAction = chosen
	s.committed = !result.Terminal()

	return result, true
}

// RunEpisode runs a single episode from the start position until the
// goal, a hazard, or the per-episode step limit ends it
func (s *Sarsa) RunEpisode() timestep.EpisodeResult {
	s.ResetPosition()
	s.deltaSum = 0
	s.deltaCount = 0

	result := timestep.EpisodeResult{
		Episode: s.episodes,
		History: make([]timestep.StepResult, 0, s.conf.MaxStepsPerEpisode),
	}

	for result.Steps < s.conf.MaxStepsPerEpisode {
		step, ok := s.Step()
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

	if s.deltaCount > 0 {
		result.AvgValueChange = s.deltaSum / float64(s.deltaCount)
	}
	s.episodes++

	return result
}

// Train runs up to MaxEpisodes episodes, decaying epsilon after each
// one and stopping early once the average absolute value change of an
// episode falls below the convergence threshold. The value table
// persists across episodes within the run.
func (s *Sarsa) Train() []timestep.EpisodeResult {
	results := make([]timestep.EpisodeResult, 0, s.conf.MaxEpisodes)

	for i := 0; i < s.conf.MaxEpisodes; i++ {
		result := s.RunEpisode()
		results = append(results, result)
		s.EndEpisode()

		if result.AvgValueChange < s.conf.ConvergenceThreshold {
			break
		}
	}

	return results
}

// EndEpisode applies the per-episode epsilon decay
func (s *Sarsa) EndEpisode() {
	s.behaviour.Decay(s.conf.EpsilonDecay, s.conf.MinEpsilon)
}

// Reset clears all learned values and running reward statistics,
// restores the initial exploration rate, and returns the agent to the
// start position
func (s *Sarsa) Reset() {
	s.table.Zero()
	s.rewards.Reset()
	s.behaviour.SetEpsilon(s.conf.Epsilon)
	s.position = s.conf.StartPosition
	s.committed = false
	s.episodes = 0
	s.deltaSum = 0
	s.deltaCount = 0
}

// ResetPosition returns the agent to the start position without
// touching learned values. Any carried on-policy commitment is
// dropped with the position.
func (s *Sarsa) ResetPosition() {
	s.position = s.conf.StartPosition
	s.committed = false
}

// Grid returns the grid owned by the environment
func (s *Sarsa) Grid() *gridworld.Grid {
	return s.grid
}

// CurrentPosition returns the agent's current position
func (s *Sarsa) CurrentPosition() gridworld.Position {
	return s.position
}

// Config returns the environment's configuration snapshot
func (s *Sarsa) Config() config.Config {
	return s.conf
}

// UpdateConfig replaces the configuration wholesale and reinitializes
// the grid, value table, and policy. An invalid configuration is
// rejected and the previous state kept.
func (s *Sarsa) UpdateConfig(conf config.Config) error {
	if err := conf.Validate(); err != nil {
		return err
	}

	grid, err := gridworld.New(conf.GridSize, conf.StartPosition,
		conf.GoalPosition, conf.HazardPositions)
	if err != nil {
		return err
	}

	size := conf.GridSize
	s.conf = conf
	s.grid = grid
	s.rewards = reward.NewCalculator(conf, grid)
	s.behaviour.SetEpsilon(conf.Epsilon)
	s.table = mat.NewVecDense(size*size*gridworld.NumActions, nil)
	s.position = conf.StartPosition
	s.committed = false
	s.episodes = 0
	s.deltaSum = 0
	s.deltaCount = 0

	return nil
}

// Epsilon returns the current exploration rate
func (s *Sarsa) Epsilon() float64 {
	return s.behaviour.Epsilon()
}

// QValues returns a copy of the action values at pos
func (s *Sarsa) QValues(pos gridworld.Position) map[gridworld.Action]float64 {
	return s.values(pos)
}

// ValidActions returns the actions the environment offers from pos.
// SARSA excludes both out-of-bounds moves and moves landing on hazard
// cells.
func (s *Sarsa) ValidActions(pos gridworld.Position) []gridworld.Action {
	return s.grid.SafeActions(pos)
}

// BestValidAction returns the greedy action at pos, ties broken by
// canonical order
func (s *Sarsa) BestValidAction(pos gridworld.Position) gridworld.Action {
	return s.greedy.SelectAction(s.values(pos), s.grid.SafeActions(pos))
}

// MaxValidQValue returns the highest action value among the valid
// actions at pos, or 0 for fully enclosed cells
func (s *Sarsa) MaxValidQValue(pos gridworld.Position) float64 {
	valid := s.grid.SafeActions(pos)
	if len(valid) == 0 {
		return 0.0
	}
	max := s.value(pos, valid[0])
	for _, a := range valid[1:] {
		if v := s.value(pos, a); v > max {
			max = v
		}
	}
	return max
}

// Policy returns the greedy action for every state, ties broken
// canonically
func (s *Sarsa) Policy() map[gridworld.Position]gridworld.Action {
	actions := make(map[gridworld.Position]gridworld.Action)
	for r := 0; r < s.grid.Size(); r++ {
		for c := 0; c < s.grid.Size(); c++ {
			pos := gridworld.Position{Row: r, Col: c}
			actions[pos] = s.greedy.SelectAction(s.values(pos),
				s.grid.SafeActions(pos))
		}
	}
	return actions
}

// MinQValue returns the minimum value over the entire table
func (s *Sarsa) MinQValue() float64 {
	return floats.Min(s.table.RawVector().Data)
}

// MaxQValue returns the maximum value over the entire table
func (s *Sarsa) MaxQValue() float64 {
	return floats.Max(s.table.RawVector().Data)
}

// AverageQValue returns the mean value over the entire table
func (s *Sarsa) AverageQValue() float64 {
	data := s.table.RawVector().Data
	return floats.Sum(data) / float64(len(data))
}

// values materializes the action-value mapping of pos from the flat
// table. Out-of-bounds positions read as all zero.
func (s *Sarsa) values(pos gridworld.Position) map[gridworld.Action]float64 {
	values := make(map[gridworld.Action]float64, gridworld.NumActions)
	for _, a := range gridworld.Actions {
		values[a] = s.value(pos, a)
	}
	return values
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
