// Package environment outlines the capability interface that every
// gridworld learning environment satisfies, and a factory that
// constructs concrete environments from a learning-method
// discriminator.
package environment

import (
	"github.com/MJRobillard/q-learner-grid/config"
	"github.com/MJRobillard/q-learner-grid/environment/gridworld"
	"github.com/MJRobillard/q-learner-grid/timestep"
)

// Environment is the uniform surface over the Q-Learning and SARSA
// environments. Everything above the agents — training drivers,
// renderers, the highscore collaborator — is written against this
// interface and stays agnostic of the update rule in use.
//
// Environments are single-threaded: no method may be invoked while
// another is in flight on the same instance. Each instance owns its
// grid and value table exclusively.
type Environment interface {
	// Step performs a single transition. The bool is false when the
	// current position is terminal and no transition was produced.
	Step() (timestep.StepResult, bool)

	// RunEpisode runs one episode from the start position to
	// termination (goal, hazard, or step limit)
	RunEpisode() timestep.EpisodeResult

	// Train runs the full training loop with per-episode epsilon decay
	// and convergence-based early stopping
	Train() []timestep.EpisodeResult

	// EndEpisode applies the per-episode epsilon decay. Train calls it
	// internally; external episode drivers call it between episodes.
	EndEpisode()

	// Reset clears learned values, running reward statistics, and the
	// exploration schedule. ResetPosition only returns the agent to
	// the start cell.
	Reset()
	ResetPosition()

	Grid() *gridworld.Grid
	CurrentPosition() gridworld.Position

	// Config returns the current configuration snapshot; UpdateConfig
	// replaces it wholesale and reinitializes the environment, or
	// rejects it leaving the previous state intact.
	Config() config.Config
	UpdateConfig(config.Config) error

	// Renderer-facing surfaces
	Policy() map[gridworld.Position]gridworld.Action
	QValues(gridworld.Position) map[gridworld.Action]float64
	ValidActions(gridworld.Position) []gridworld.Action
	BestValidAction(gridworld.Position) gridworld.Action
	MaxValidQValue(gridworld.Position) float64

	// Aggregate statistics over the entire value table
	MinQValue() float64
	MaxQValue() float64
	AverageQValue() float64

	// Epsilon reports the current exploration rate
	Epsilon() float64

	// Method returns the factory discriminator of the environment
	Method() string
}
