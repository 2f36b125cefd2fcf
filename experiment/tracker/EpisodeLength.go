package tracker

import (
	"github.com/MJRobillard/q-learner-grid/timestep"
)

// EpisodeLength tracks and saves the lengths of episodes in an
// experiment
type EpisodeLength struct {
	episodeLengths []float64
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength Tracker which will save
// its data at the specified location filename
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{filename: filename}
}

// Track is a no-op for this Tracker; episode lengths are recorded
// from completed episodes only
func (e *EpisodeLength) Track(timestep.StepResult) {}

// End caches the step count of a completed episode
func (e *EpisodeLength) End(result timestep.EpisodeResult) {
	e.episodeLengths = append(e.episodeLengths, float64(result.Steps))
}

// Save saves the tracked episode lengths to disk
func (e *EpisodeLength) Save() error {
	return save(e.filename, e.episodeLengths)
}
