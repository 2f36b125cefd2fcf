// Package experiment implements functionality for running training
// experiments over learning environments
package experiment

import (
	"time"

	"github.com/MJRobillard/q-learner-grid/config"
	"github.com/MJRobillard/q-learner-grid/environment"
	"github.com/MJRobillard/q-learner-grid/experiment/tracker"
	"github.com/MJRobillard/q-learner-grid/timestep"
)

// Snapshot is the opaque payload handed to the highscore collaborator
// after a run. The core has no dependency on the collaborator; it only
// produces this value.
type Snapshot struct {
	Name      string        `json:"name"`
	Score     float64       `json:"score"`
	Episodes  int           `json:"episodes"`
	Config    config.Config `json:"config"`
	Mode      string        `json:"mode"`
	Timestamp time.Time     `json:"timestamp"`
}

// Online runs an agent online on its environment: episodes execute
// strictly sequentially against the environment's own training
// parameters, and every transition is forwarded to the registered
// Trackers. No offline evaluation is performed.
//
// Cancellation is cooperative: each RunEpisode call is atomic from the
// caller's perspective, and a caller that stops invoking the loop
// between episodes leaves no partial state behind.
type Online struct {
	environment.Environment
	trackers []tracker.Tracker

	episodes    int
	totalReward float64
	converged   bool
}

// NewOnline creates and returns a new online experiment on the given
// environment. The t parameter lists the Trackers determining what
// data is saved.
func NewOnline(env environment.Environment, t ...tracker.Tracker) *Online {
	return &Online{Environment: env, trackers: t}
}

// Register registers a tracker.Tracker with the (possibly already
// running) experiment
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode, forwards its transitions to the
// Trackers, and applies the per-episode epsilon decay. It returns
// false once the experiment should stop: either the episode budget is
// spent or the value table converged.
func (o *Online) RunEpisode() bool {
	result := o.Environment.RunEpisode()
	o.track(result)

	o.episodes++
	o.totalReward += result.TotalReward

	o.Environment.EndEpisode()

	conf := o.Environment.Config()
	if result.AvgValueChange < conf.ConvergenceThreshold {
		o.converged = true
	}
	return !o.converged && o.episodes < conf.MaxEpisodes
}

// Run runs the entire experiment until the episode budget is spent or
// training converges
func (o *Online) Run() {
	for o.RunEpisode() {
	}
}

// Episodes returns the number of episodes run so far
func (o *Online) Episodes() int {
	return o.episodes
}

// TotalReward returns the cumulative reward over all episodes run
func (o *Online) TotalReward() float64 {
	return o.totalReward
}

// Converged returns whether the run stopped early on the convergence
// threshold
func (o *Online) Converged() bool {
	return o.converged
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot produces the highscore payload for the run so far
func (o *Online) Snapshot(name string) Snapshot {
	return Snapshot{
		Name:      name,
		Score:     o.totalReward,
		Episodes:  o.episodes,
		Config:    o.Environment.Config(),
		Mode:      o.Environment.Method(),
		Timestamp: time.Now(),
	}
}

// track forwards an episode's transitions and completion to every
// Tracker
func (o *Online) track(result timestep.EpisodeResult) {
	for _, t := range o.trackers {
		for _, step := range result.History {
			t.Track(step)
		}
		t.End(result)
	}
}
