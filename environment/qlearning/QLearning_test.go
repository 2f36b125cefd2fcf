package qlearning

import (
	"math"
	"testing"

	"github.com/MJRobillard/q-learner-grid/config"
	"github.com/MJRobillard/q-learner-grid/environment/gridworld"
)

// deterministicConfig returns a small greedy-only configuration so the
// tests control every action through the value table
func deterministicConfig() config.Config {
	conf := config.Default()
	conf.GridSize = 3
	conf.StartPosition = gridworld.Position{Row: 0, Col: 0}
	conf.GoalPosition = gridworld.Position{Row: 2, Col: 2}
	conf.HazardPositions = nil
	conf.LearningRate = 0.5
	conf.DiscountFactor = 0.9
	conf.Epsilon = 0.0
	return conf
}

func newTestEnv(t *testing.T, conf config.Config) *QLearning {
	t.Helper()
	env, err := New(conf, uint64(42))
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	return env
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	conf := deterministicConfig()
	conf.LearningRate = 0.0
	if _, err := New(conf, uint64(1)); err == nil {
		t.Error("expected an error for a zero learning rate")
	}
}

func TestStepUpdateRule(t *testing.T) {
	env := newTestEnv(t, deterministicConfig())

	// seed the table so the greedy policy moves Right from the start
	// and the successor's best valid value is known
	start := gridworld.Position{Row: 0, Col: 0}
	env.Grid().CellAt(start).Values[gridworld.Right] = 2.0
	env.Grid().CellAt(gridworld.Position{Row: 0, Col: 1}).
		Values[gridworld.Down] = 3.0

	step, ok := env.Step()
	if !ok {
		t.Fatal("expected a transition from the start position")
	}
	if step.Action != gridworld.Right {
		t.Fatalf("expected greedy action Right, got %v", step.Action)
	}
	if step.Reward != -1.0 {
		t.Errorf("expected step reward -1, got %v", step.Reward)
	}

	// Q(s,a) ← 2 + 0.5·(−1 + 0.9·3 − 2) = 1.85
	got := env.QValues(start)[gridworld.Right]
	if math.Abs(got-1.85) > 1e-12 {
		t.Errorf("expected updated value 1.85, got %v", got)
	}

	if env.CurrentPosition() != (gridworld.Position{Row: 0, Col: 1}) {
		t.Errorf("expected position (0,1), got %v", env.CurrentPosition())
	}
}

func TestStepTerminalPosition(t *testing.T) {
	env := newTestEnv(t, deterministicConfig())
	env.position = env.conf.GoalPosition

	if _, ok := env.Step(); ok {
		t.Error("expected no transition from a terminal position")
	}
}

func TestValidActionsIncludeHazards(t *testing.T) {
	conf := deterministicConfig()
	conf.HazardPositions = []gridworld.Position{{Row: 0, Col: 1}}
	env := newTestEnv(t, conf)

	// off-policy updates still consider moves into hazard cells
	valid := env.ValidActions(gridworld.Position{Row: 0, Col: 0})
	want := []gridworld.Action{gridworld.Down, gridworld.Right}
	if len(valid) != len(want) {
		t.Fatalf("expected %v, got %v", want, valid)
	}
	for i, a := range want {
		if valid[i] != a {
			t.Fatalf("expected %v, got %v", want, valid)
		}
	}
}

func TestRunEpisodeReachesGoal(t *testing.T) {
	conf := deterministicConfig()
	conf.GridSize = 2
	conf.GoalPosition = gridworld.Position{Row: 0, Col: 1}
	env := newTestEnv(t, conf)

	// make Right the greedy action from the start so the episode ends
	// on the first transition
	env.Grid().CellAt(conf.StartPosition).Values[gridworld.Right] = 1.0

	result := env.RunEpisode()
	if result.Steps != 1 {
		t.Fatalf("expected a one-step episode, got %d steps", result.Steps)
	}
	if !result.ReachedGoal {
		t.Error("expected the episode to reach the goal")
	}
	if result.HitHazard {
		t.Error("expected no hazard on the way")
	}
	if result.TotalReward != conf.GoalReward {
		t.Errorf("expected total reward %v, got %v", conf.GoalReward,
			result.TotalReward)
	}
	if len(result.History) != 1 {
		t.Errorf("expected one recorded transition, got %d",
			len(result.History))
	}
	if result.AvgValueChange <= 0 {
		t.Errorf("expected a positive average value change, got %v",
			result.AvgValueChange)
	}
}

func TestRunEpisodeHitsStepLimit(t *testing.T) {
	conf := deterministicConfig()
	conf.MaxStepsPerEpisode = 3
	env := newTestEnv(t, conf)

	result := env.RunEpisode()
	if result.Steps > conf.MaxStepsPerEpisode {
		t.Errorf("episode ran %d steps past the limit of %d", result.Steps,
			conf.MaxStepsPerEpisode)
	}
}

func TestValuesPersistAcrossEpisodes(t *testing.T) {
	env := newTestEnv(t, deterministicConfig())

	env.RunEpisode()
	before := env.AverageQValue()
	if before == 0 {
		t.Fatal("expected the first episode to move some values")
	}

	// a later episode keeps learning on the same table
	env.RunEpisode()
	if env.AverageQValue() == 0 {
		t.Error("expected values to persist across episodes")
	}
}

func TestTrainConvergesEarly(t *testing.T) {
	conf := deterministicConfig()
	conf.MaxEpisodes = 50

	// a huge threshold makes the very first episode count as converged
	conf.ConvergenceThreshold = 1e6
	env := newTestEnv(t, conf)

	results := env.Train()
	if len(results) != 1 {
		t.Errorf("expected training to stop after one episode, got %d",
			len(results))
	}
}

func TestTrainDecaysEpsilon(t *testing.T) {
	conf := deterministicConfig()
	conf.Epsilon = 0.5
	conf.EpsilonDecay = 0.5
	conf.MinEpsilon = 0.01
	conf.ConvergenceThreshold = 0.0
	conf.MaxEpisodes = 3
	env := newTestEnv(t, conf)

	env.Train()
	want := 0.5 * 0.5 * 0.5 * 0.5
	if math.Abs(env.Epsilon()-want) > 1e-12 {
		t.Errorf("expected epsilon %v after three episodes, got %v", want,
			env.Epsilon())
	}
}

func TestEpsilonFloor(t *testing.T) {
	conf := deterministicConfig()
	conf.Epsilon = 0.5
	conf.EpsilonDecay = 0.1
	conf.MinEpsilon = 0.05
	env := newTestEnv(t, conf)

	for i := 0; i < 10; i++ {
		env.EndEpisode()
	}
	if env.Epsilon() != conf.MinEpsilon {
		t.Errorf("expected epsilon clamped at %v, got %v", conf.MinEpsilon,
			env.Epsilon())
	}
}

func TestReset(t *testing.T) {
	env := newTestEnv(t, deterministicConfig())
	env.RunEpisode()
	env.Reset()

	if env.CurrentPosition() != env.conf.StartPosition {
		t.Errorf("expected the agent back at %v, got %v",
			env.conf.StartPosition, env.CurrentPosition())
	}
	if env.Epsilon() != env.conf.Epsilon {
		t.Errorf("expected epsilon restored to %v, got %v",
			env.conf.Epsilon, env.Epsilon())
	}
	if env.MinQValue() != 0 || env.MaxQValue() != 0 {
		t.Error("expected an all-zero value table after reset")
	}

	// resetting an already reset environment changes nothing
	env.Reset()
	if env.AverageQValue() != 0 {
		t.Error("expected reset to be idempotent")
	}
}

func TestTableStatistics(t *testing.T) {
	conf := deterministicConfig()
	conf.GridSize = 2
	conf.GoalPosition = gridworld.Position{Row: 1, Col: 1}
	env := newTestEnv(t, conf)

	env.Grid().CellAt(gridworld.Position{Row: 0, Col: 0}).
		Values[gridworld.Right] = 5.0
	env.Grid().CellAt(gridworld.Position{Row: 1, Col: 0}).
		Values[gridworld.Up] = -3.0

	if got := env.MaxQValue(); got != 5.0 {
		t.Errorf("expected max 5, got %v", got)
	}
	if got := env.MinQValue(); got != -3.0 {
		t.Errorf("expected min -3, got %v", got)
	}
	want := (5.0 - 3.0) / 16.0
	if got := env.AverageQValue(); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected average %v, got %v", want, got)
	}
}

func TestBestValidActionExcludesInvalid(t *testing.T) {
	env := newTestEnv(t, deterministicConfig())

	// Up is out of bounds from the start corner, so its value must be
	// ignored no matter how large
	start := gridworld.Position{Row: 0, Col: 0}
	cell := env.Grid().CellAt(start)
	cell.Values[gridworld.Up] = 100.0
	cell.Values[gridworld.Right] = 1.0

	if a := env.BestValidAction(start); a != gridworld.Right {
		t.Errorf("expected Right, got %v", a)
	}
	if v := env.MaxValidQValue(start); v != 1.0 {
		t.Errorf("expected max valid value 1, got %v", v)
	}
}

func TestPolicyCoversEveryCell(t *testing.T) {
	env := newTestEnv(t, deterministicConfig())

	actions := env.Policy()
	size := env.conf.GridSize
	if len(actions) != size*size {
		t.Fatalf("expected %d policy entries, got %d", size*size,
			len(actions))
	}
	for pos, a := range actions {
		next := pos.Neighbour(a)
		if !env.Grid().InBounds(next) {
			t.Errorf("policy at %v points out of bounds via %v", pos, a)
		}
	}
}

func TestUpdateConfigRejectionKeepsState(t *testing.T) {
	env := newTestEnv(t, deterministicConfig())
	start := env.conf.StartPosition
	env.Grid().CellAt(start).Values[gridworld.Right] = 7.0

	bad := env.Config()
	bad.GridSize = 0
	if err := env.UpdateConfig(bad); err == nil {
		t.Fatal("expected an error for an invalid configuration")
	}

	if env.Config().GridSize != 3 {
		t.Error("expected the previous configuration to be kept")
	}
	if env.QValues(start)[gridworld.Right] != 7.0 {
		t.Error("expected learned values to survive the rejected update")
	}
}

func TestUpdateConfigReinitializes(t *testing.T) {
	env := newTestEnv(t, deterministicConfig())
	env.RunEpisode()

	conf := deterministicConfig()
	conf.GridSize = 4
	conf.GoalPosition = gridworld.Position{Row: 3, Col: 3}
	if err := env.UpdateConfig(conf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.Grid().Size() != 4 {
		t.Errorf("expected a 4x4 grid, got size %d", env.Grid().Size())
	}
	if env.AverageQValue() != 0 {
		t.Error("expected a fresh value table after reconfiguration")
	}
	if env.CurrentPosition() != conf.StartPosition {
		t.Errorf("expected the agent at %v, got %v", conf.StartPosition,
			env.CurrentPosition())
	}
}
