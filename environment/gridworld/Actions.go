package gridworld

import "fmt"

// Action is one of the four directional moves an agent can take on a
// grid.
type Action int

const (
	Up Action = iota
	Down
	Left
	Right
)

// Actions lists every action in the canonical order {Up, Down, Left,
// Right}. All tie-breaking in greedy action selection follows this
// order, so tests relying on deterministic selection must not reorder
// it.
var Actions = []Action{Up, Down, Left, Right}

// NumActions is the size of the action set
const NumActions = 4

func (a Action) String() string {
	switch a {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Position is a 0-indexed (row, col) pair on a grid. Positions are
// value types with no identity.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Neighbour returns the position reached by taking action a from p.
// Moves are deterministic and slip-free; the caller is responsible for
// ensuring the action keeps the position within bounds.
func (p Position) Neighbour(a Action) Position {
	switch a {
	case Up:
		return Position{p.Row - 1, p.Col}
	case Down:
		return Position{p.Row + 1, p.Col}
	case Left:
		return Position{p.Row, p.Col - 1}
	case Right:
		return Position{p.Row, p.Col + 1}
	}
	return p
}
