// Package gridworld implements the 2D gridworld that tabular agents
// learn on: a rectangular grid with a single start cell, a single goal
// cell, and a set of hazard cells.
package gridworld

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Grid is a static description of a square grid along with the
// per-cell classification and action values. Classification queries
// (IsHazard, IsGoal, InBounds) are O(1); hazards are kept in a set
// rather than scanned from a list so large grids stay cheap.
type Grid struct {
	size    int
	start   Position
	goal    Position
	hazards map[Position]struct{}
	cells   [][]*Cell
}

// New creates a new size x size grid. The start and goal positions
// must be distinct, lie within bounds, and must not be listed as
// hazards; hazard positions must lie within bounds. Callers holding a
// validated configuration can ignore the error.
func New(size int, start, goal Position, hazards []Position) (*Grid, error) {
	if size < 2 {
		return nil, fmt.Errorf("gridworld: size must be at least 2, got %d",
			size)
	}

	g := &Grid{
		size:    size,
		start:   start,
		goal:    goal,
		hazards: make(map[Position]struct{}, len(hazards)),
	}

	if !g.InBounds(start) {
		return nil, fmt.Errorf("gridworld: start %v out of bounds [0, %d)",
			start, size)
	}
	if !g.InBounds(goal) {
		return nil, fmt.Errorf("gridworld: goal %v out of bounds [0, %d)",
			goal, size)
	}
	if start == goal {
		return nil, fmt.Errorf("gridworld: start and goal are both %v", start)
	}

	for _, h := range hazards {
		if !g.InBounds(h) {
			return nil, fmt.Errorf("gridworld: hazard %v out of bounds "+
				"[0, %d)", h, size)
		}
		if h == start || h == goal {
			return nil, fmt.Errorf("gridworld: hazard %v overlaps the "+
				"start or goal cell", h)
		}
		g.hazards[h] = struct{}{}
	}

	g.cells = make([][]*Cell, size)
	for r := 0; r < size; r++ {
		g.cells[r] = make([]*Cell, size)
		for c := 0; c < size; c++ {
			pos := Position{r, c}
			g.cells[r][c] = newCell(g.classify(pos))
		}
	}

	return g, nil
}

func (g *Grid) classify(pos Position) CellKind {
	switch {
	case pos == g.start:
		return Start
	case pos == g.goal:
		return Goal
	default:
		if _, ok := g.hazards[pos]; ok {
			return Hazard
		}
		return Empty
	}
}

// Size gets the number of rows (= columns) of the grid
func (g *Grid) Size() int {
	return g.size
}

// Start gets the start position of the grid
func (g *Grid) Start() Position {
	return g.start
}

// Goal gets the goal position of the grid
func (g *Grid) Goal() Position {
	return g.goal
}

// InBounds returns whether pos lies within [0, size)²
func (g *Grid) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < g.size && pos.Col >= 0 &&
		pos.Col < g.size
}

// IsHazard returns whether pos is a hazard cell
func (g *Grid) IsHazard(pos Position) bool {
	_, ok := g.hazards[pos]
	return ok
}

// IsGoal returns whether pos is the goal cell
func (g *Grid) IsGoal(pos Position) bool {
	return pos == g.goal
}

// Terminal returns whether an agent at pos has ended its episode
func (g *Grid) Terminal(pos Position) bool {
	return g.IsGoal(pos) || g.IsHazard(pos)
}

// KindAt returns the classification of pos. Out-of-bounds positions
// classify as Empty.
func (g *Grid) KindAt(pos Position) CellKind {
	if !g.InBounds(pos) {
		return Empty
	}
	return g.cells[pos.Row][pos.Col].Kind
}

// CellAt returns the cell at pos, or nil for out-of-bounds positions
func (g *Grid) CellAt(pos Position) *Cell {
	if !g.InBounds(pos) {
		return nil
	}
	return g.cells[pos.Row][pos.Col]
}

// ValidActions returns the subset of the canonical action set that
// keeps the agent within grid bounds when taken from pos. This is a
// boundary-clamping policy only: actions leading into hazard cells are
// still offered, and taking one terminates the episode.
func (g *Grid) ValidActions(pos Position) []Action {
	valid := make([]Action, 0, NumActions)
	for _, a := range Actions {
		if g.InBounds(pos.Neighbour(a)) {
			valid = append(valid, a)
		}
	}
	return valid
}

// SafeActions returns the subset of ValidActions whose destination is
// not a hazard cell. This is the SARSA selection view of the grid; it
// forecloses stepping into hazards at the selection stage, which
// Q-Learning deliberately does not.
func (g *Grid) SafeActions(pos Position) []Action {
	valid := make([]Action, 0, NumActions)
	for _, a := range Actions {
		next := pos.Neighbour(a)
		if g.InBounds(next) && !g.IsHazard(next) {
			valid = append(valid, a)
		}
	}
	return valid
}

// NextPosition returns the deterministic successor of taking action a
// from pos. Out-of-bounds destinations are never produced for actions
// in ValidActions(pos); an invalid action leaves the position in
// place rather than clamping silently mid-move.
func (g *Grid) NextPosition(pos Position, a Action) Position {
	next := pos.Neighbour(a)
	if !g.InBounds(next) {
		return pos
	}
	return next
}

// ZeroValues resets the action values of every cell to 0
func (g *Grid) ZeroValues() {
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			g.cells[r][c].Zero()
		}
	}
}

// Observation returns a one-hot vector over the flattened grid with a
// 1.0 at pos, the same encoding the renderer-facing tooling consumes.
func (g *Grid) Observation(pos Position) *mat.VecDense {
	obs := mat.NewVecDense(g.size*g.size, nil)
	if g.InBounds(pos) {
		obs.SetVec(pos.Row*g.size+pos.Col, 1.0)
	}
	return obs
}

func (g *Grid) String() string {
	str := "GridWorld | Start: %v  |  Goal: %v  |  Hazards: %d  |  " +
		"Bounds: (%d, %d)"

	return fmt.Sprintf(str, g.start, g.goal, len(g.hazards), g.size, g.size)
}
