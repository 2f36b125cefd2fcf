// Package timestep packages together the results of single transitions
// and full episodes of the agent-environment interaction
package timestep

import (
	"fmt"

	"github.com/MJRobillard/q-learner-grid/environment/gridworld"
)

// StepResult packages together a single transition in an environment.
// A StepResult is produced once per step and consumed immediately by
// the caller; environments never retain them.
type StepResult struct {
	From        gridworld.Position
	Action      gridworld.Action
	To          gridworld.Position
	Reward      float64
	ReachedGoal bool
	HitHazard   bool
}

// Terminal returns whether the transition ended the episode
func (s StepResult) Terminal() bool {
	return s.ReachedGoal || s.HitHazard
}

func (s StepResult) String() string {
	str := "Step | %v --%v--> %v  |  Reward: %.2f  |  Goal: %v  |  Hazard: %v"

	return fmt.Sprintf(str, s.From, s.Action, s.To, s.Reward, s.ReachedGoal,
		s.HitHazard)
}

// EpisodeResult packages together the outcome of a single episode. An
// episode ends when the agent reaches the goal, steps into a hazard,
// or exhausts the per-episode step limit; each terminal condition sets
// its own flag (neither flag set means the step limit ended the
// episode).
type EpisodeResult struct {
	Episode        int
	Steps          int
	TotalReward    float64
	ReachedGoal    bool
	HitHazard      bool
	AvgValueChange float64
	History        []StepResult
}

func (e EpisodeResult) String() string {
	str := "Episode %d | Steps: %d  |  Return: %.2f  |  Goal: %v  |  " +
		"Hazard: %v  |  Avg Δ: %.5f"

	return fmt.Sprintf(str, e.Episode, e.Steps, e.TotalReward, e.ReachedGoal,
		e.HitHazard, e.AvgValueChange)
}
