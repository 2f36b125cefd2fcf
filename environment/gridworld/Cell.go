package gridworld

// CellKind classifies a cell of the grid
type CellKind int

const (
	Empty CellKind = iota
	Start
	Goal
	Hazard
)

func (k CellKind) String() string {
	switch k {
	case Start:
		return "Start"
	case Goal:
		return "Goal"
	case Hazard:
		return "Hazard"
	}
	return "Empty"
}

// Cell is a single grid cell: a classification plus a learned value
// for each directional action. Values are initialized to 0 and are
// owned exclusively by the environment holding the grid; they are
// recreated whenever the configuration changes or the environment is
// reset.
type Cell struct {
	Kind   CellKind
	Values map[Action]float64
}

func newCell(kind CellKind) *Cell {
	values := make(map[Action]float64, NumActions)
	for _, a := range Actions {
		values[a] = 0.0
	}
	return &Cell{Kind: kind, Values: values}
}

// Zero resets every action value of the cell to 0
func (c *Cell) Zero() {
	for _, a := range Actions {
		c.Values[a] = 0.0
	}
}
