package tracker

import (
	"fmt"
	"os"

	"github.com/MJRobillard/q-learner-grid/timestep"
)

// Return tracks and saves the episodic return in an experiment. The
// rewards of each transition are accumulated step by step, and the
// cumulative reward of each completed episode is recorded as that
// episode's return.
//
// Note: an episode must finish for this Tracker to record its data.
// If the last episode in an experiment does not finish, that episode's
// return is not saved.
type Return struct {
	currentReturn  float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker
func NewReturn(filename string) *Return {
	return &Return{filename: filename}
}

// Track accumulates the reward seen on a transition
func (r *Return) Track(step timestep.StepResult) {
	r.currentReturn += step.Reward
}

// End records the completed episode's return and starts accumulating
// the next episode separately. The accumulated rewards are checked
// against the episode's own total so that non-sequential tracking is
// caught early.
func (r *Return) End(result timestep.EpisodeResult) {
	if r.currentReturn != result.TotalReward {
		fmt.Fprintf(os.Stderr, "warning: tracked return %v does not match "+
			"episode return %v; transitions were skipped\n",
			r.currentReturn, result.TotalReward)
	}
	r.episodeReturns = append(r.episodeReturns, result.TotalReward)
	r.currentReturn = 0.0
}

// Save saves the per-episode returns to disk
func (r *Return) Save() error {
	return save(r.filename, r.episodeReturns)
}
