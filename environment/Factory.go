package environment

import (
	"errors"
	"fmt"

	"github.com/MJRobillard/q-learner-grid/config"
	"github.com/MJRobillard/q-learner-grid/environment/qlearning"
	"github.com/MJRobillard/q-learner-grid/environment/sarsa"
)

// ErrUnknownMethod is returned when a learning-method discriminator
// names no known environment
var ErrUnknownMethod = errors.New("unknown learning method")

// Method discriminates between the concrete learning environments
type Method string

const (
	QLearning Method = qlearning.MethodName
	Sarsa     Method = sarsa.MethodName
)

// Compile-time checks that both concrete environments satisfy the
// capability interface
var (
	_ Environment = (*qlearning.QLearning)(nil)
	_ Environment = (*sarsa.Sarsa)(nil)
)

// ParseMethod parses a learning-method discriminator. Unknown values
// fail with ErrUnknownMethod; there is no silent default.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case QLearning:
		return QLearning, nil
	case Sarsa:
		return Sarsa, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownMethod, s)
}

// New constructs the concrete environment selected by method. The
// configuration is validated by the concrete constructor; all
// randomness of the environment flows from seed.
func New(method Method, conf config.Config, seed uint64) (Environment, error) {
	switch method {
	case QLearning:
		return qlearning.New(conf, seed)
	case Sarsa:
		return sarsa.New(conf, seed)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownMethod, method)
}
