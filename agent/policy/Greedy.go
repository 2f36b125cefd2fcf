package policy

// NewGreedy creates a new purely greedy policy
func NewGreedy(seed uint64) *EGreedy {
	return NewEGreedy(0.0, seed)
}
