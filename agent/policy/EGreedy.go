// Package policy implements action-selection policies over tabular
// action values
package policy

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/MJRobillard/q-learner-grid/environment/gridworld"
	"github.com/MJRobillard/q-learner-grid/utils/floatutils"
)

// EGreedy implements an ε-greedy policy over a state's action values.
// With probability ε it samples uniformly among the valid actions;
// otherwise it picks the valid action with the highest value, breaking
// ties by the first action in the canonical order, so that with ε = 0
// selection is a pure function of the value table.
type EGreedy struct {
	epsilon float64
	source  rand.Source
	rng     *rand.Rand
}

// NewEGreedy constructs a new EGreedy policy, where e is the
// probability with which a random action is selected. All randomness
// flows from the given seed.
func NewEGreedy(e float64, seed uint64) *EGreedy {
	source := rand.NewSource(seed)
	return &EGreedy{
		epsilon: e,
		source:  source,
		rng:     rand.New(source),
	}
}

// SelectAction selects an action among valid, given the current action
// values of the state. An empty valid set reduces gracefully to the
// first canonical action; callers treat such states as unreachable.
func (p *EGreedy) SelectAction(values map[gridworld.Action]float64,
	valid []gridworld.Action) gridworld.Action {

	if len(valid) == 0 {
		return gridworld.Actions[0]
	}

	// Explore: sample uniformly among the valid actions
	if p.rng.Float64() < p.epsilon {
		weights := make([]float64, len(valid))
		for i := range weights {
			weights[i] = 1.0
		}
		dist := distuv.NewCategorical(weights, p.source)
		return valid[int(dist.Rand())]
	}

	// Exploit: argmax over the valid actions. The valid slice follows
	// the canonical action order, so taking the first maximal index
	// breaks ties deterministically.
	vals := make([]float64, len(valid))
	for i, a := range valid {
		vals[i] = values[a]
	}
	_, indices := floatutils.MaxSlice(vals)
	return valid[indices[0]]
}

// Epsilon gets the current exploration rate
func (p *EGreedy) Epsilon() float64 {
	return p.epsilon
}

// SetEpsilon sets the exploration rate
func (p *EGreedy) SetEpsilon(e float64) {
	p.epsilon = e
}

// Decay applies one episode's multiplicative epsilon decay, clamped
// below by floor: ε ← max(floor, ε·rate)
func (p *EGreedy) Decay(rate, floor float64) {
	decayed := p.epsilon * rate
	if decayed < floor {
		decayed = floor
	}
	p.epsilon = decayed
}
