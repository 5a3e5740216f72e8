package primitives

import (
	"errors"
	"fmt"
	"strings"
)

// StateType defines the kinds of states in the chart.
type StateType string

const (
	Atomic   StateType = "atomic"
	Compound StateType = "compound"
	Final    StateType = "final"
)

// StateConfig defines a state, possibly with nested children.
type StateConfig struct {
	ID       string                        `json:"id" yaml:"id"`
	Type     StateType                     `json:"type" yaml:"type"`
	Initial  string                        `json:"initial,omitempty" yaml:"initial,omitempty"`
	On       map[string][]TransitionConfig `json:"on,omitempty" yaml:"on,omitempty"`
	Entry    []Action                      `json:"-" yaml:"-"`
	Exit     []Action                      `json:"-" yaml:"-"`
	Children []*StateConfig                `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewStateConfig creates a new StateConfig with ID and Type.
func NewStateConfig(id string, typ StateType) *StateConfig {
	return &StateConfig{
		ID:   id,
		Type: typ,
	}
}

// WithInitial sets the initial child state ID.
func (s *StateConfig) WithInitial(initial string) *StateConfig {
	s.Initial = initial
	return s
}

// AddTransition adds a transition for an event. The event name is copied into
// the transition.
func (s *StateConfig) AddTransition(event string, trans TransitionConfig) *StateConfig {
	if s.On == nil {
		s.On = make(map[string][]TransitionConfig)
	}
	trans.Event = event
	s.On[event] = append(s.On[event], trans)
	SortTransitions(s.On[event])
	return s
}

// Transition adds a transition from event to target. An optional
// TransitionConfig supplies guard, actions and priority.
func (s *StateConfig) Transition(event, target string, opts ...TransitionConfig) *StateConfig {
	trans := TransitionConfig{Target: target}
	if len(opts) > 0 {
		trans = opts[0]
		trans.Target = target
	}
	return s.AddTransition(event, trans)
}

// AddEntry adds an entry action.
func (s *StateConfig) AddEntry(action Action) *StateConfig {
	s.Entry = append(s.Entry, action)
	return s
}

// AddExit adds an exit action.
func (s *StateConfig) AddExit(action Action) *StateConfig {
	s.Exit = append(s.Exit, action)
	return s
}

// WithChildren sets child states.
func (s *StateConfig) WithChildren(children []*StateConfig) *StateConfig {
	s.Children = children
	return s
}

// AddChild adds a child state.
func (s *StateConfig) AddChild(child *StateConfig) *StateConfig {
	s.Children = append(s.Children, child)
	return s
}

// State creates and adds a child state (atomic unless typ says otherwise) and
// returns it for chaining.
func (s *StateConfig) State(id string, typ ...StateType) *StateConfig {
	t := Atomic
	if len(typ) > 0 {
		t = typ[0]
	}
	child := NewStateConfig(id, t)
	s.AddChild(child)
	return child
}

// Child returns the direct child with id, or nil.
func (s *StateConfig) Child(id string) *StateConfig {
	for _, c := range s.Children {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Validate performs recursive validation of the StateConfig tree.
func (s *StateConfig) Validate() error {
	if s.ID == "" {
		return errors.New("state ID is required")
	}
	if strings.Contains(s.ID, ".") {
		return fmt.Errorf("state ID %q cannot contain '.'", s.ID)
	}

	switch s.Type {
	case Atomic, Final:
		if s.Initial != "" {
			return fmt.Errorf("%s state %s cannot have Initial", s.Type, s.ID)
		}
		if len(s.Children) > 0 {
			return fmt.Errorf("%s state %s cannot have Children", s.Type, s.ID)
		}
		if s.Type == Final && len(s.On) > 0 {
			return fmt.Errorf("final state %s cannot have transitions", s.ID)
		}
	case Compound:
		if len(s.Children) == 0 {
			return fmt.Errorf("compound state %s requires Children", s.ID)
		}
		if s.Initial == "" {
			return fmt.Errorf("compound state %s requires Initial child", s.ID)
		}
		if s.Child(s.Initial) == nil {
			return fmt.Errorf("initial child %q not found in children of %s", s.Initial, s.ID)
		}
	default:
		return fmt.Errorf("invalid state type %q for state %s", s.Type, s.ID)
	}

	for event, transitions := range s.On {
		if strings.TrimSpace(event) == "" {
			return fmt.Errorf("empty event name in On map for state %s", s.ID)
		}
		for i := range transitions {
			if err := transitions[i].Validate(); err != nil {
				return fmt.Errorf("transition %d on %q of %s: %w", i, event, s.ID, err)
			}
		}
	}

	seen := make(map[string]bool, len(s.Children))
	for i, child := range s.Children {
		if seen[child.ID] {
			return fmt.Errorf("duplicate child %q in %s", child.ID, s.ID)
		}
		seen[child.ID] = true
		if err := child.Validate(); err != nil {
			return fmt.Errorf("child %d (%s) of %s failed validation: %w", i, child.ID, s.ID, err)
		}
	}

	return nil
}
