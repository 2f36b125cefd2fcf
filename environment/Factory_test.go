package environment

import (
	"errors"
	"testing"

	"github.com/MJRobillard/q-learner-grid/config"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    Method
		wantErr bool
	}{
		{"qlearning", QLearning, false},
		{"sarsa", Sarsa, false},
		{"", "", true},
		{"QLearning", "", true},
		{"montecarlo", "", true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, err := ParseMethod(test.input)
			if test.wantErr {
				if err == nil {
					t.Fatalf("expected an error for %q", test.input)
				}
				if !errors.Is(err, ErrUnknownMethod) {
					t.Errorf("expected ErrUnknownMethod, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != test.want {
				t.Errorf("expected %q, got %q", test.want, got)
			}
		})
	}
}

func TestNewConstructsBothMethods(t *testing.T) {
	conf := config.Default()

	for _, method := range []Method{QLearning, Sarsa} {
		env, err := New(method, conf, uint64(1))
		if err != nil {
			t.Fatalf("could not construct %q: %v", method, err)
		}
		if env.Method() != string(method) {
			t.Errorf("expected discriminator %q, got %q", method,
				env.Method())
		}
		if env.CurrentPosition() != conf.StartPosition {
			t.Errorf("%q: expected agent at %v, got %v", method,
				conf.StartPosition, env.CurrentPosition())
		}
	}
}

func TestNewUnknownMethod(t *testing.T) {
	_, err := New(Method("dynaq"), config.Default(), uint64(1))
	if !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}
}

func TestNewPropagatesConfigErrors(t *testing.T) {
	conf := config.Default()
	conf.GridSize = 0

	for _, method := range []Method{QLearning, Sarsa} {
		if _, err := New(method, conf, uint64(1)); err == nil {
			t.Errorf("%q: expected an error for an invalid configuration",
				method)
		}
	}
}
