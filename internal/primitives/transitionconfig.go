package primitives

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Guard decides whether a transition may fire for an event.
type Guard func(Event) bool

// Action runs on entry, exit, or while a transition fires.
type Action func(Event)

// TransitionConfig defines a single transition triggered by an event.
// Higher Priority values are tried first; equal priorities keep declaration order.
type TransitionConfig struct {
	Event     string   `json:"event" yaml:"event"`
	Guard     Guard    `json:"-" yaml:"-"`
	GuardName string   `json:"guard,omitempty" yaml:"guard,omitempty"`
	Target    string   `json:"target" yaml:"target"`
	Actions   []Action `json:"-" yaml:"-"`
	Priority  int      `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// Allows reports whether the transition's guard passes for evt.
// A nil guard always passes.
func (t *TransitionConfig) Allows(evt Event) bool {
	if t.Guard == nil {
		return true
	}
	return t.Guard(evt)
}

// Label is the edge label used in exports: the event, plus the guard name in brackets.
func (t *TransitionConfig) Label() string {
	if t.GuardName == "" {
		return t.Event
	}
	return fmt.Sprintf("%s [%s]", t.Event, t.GuardName)
}

// Validate checks the event name, priority and target path syntax.
func (t *TransitionConfig) Validate() error {
	if t.Event == "" {
		return errors.New("event is required")
	}
	if t.Target == "" {
		return errors.New("target is required")
	}
	for i, seg := range strings.Split(t.Target, ".") {
		if strings.TrimSpace(seg) == "" {
			return fmt.Errorf("invalid target path %q: empty segment at index %d", t.Target, i)
		}
		for _, r := range seg {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
				return fmt.Errorf("invalid target path %q: invalid character '%c' at index %d", t.Target, r, i)
			}
		}
	}
	if t.Priority < 0 {
		return errors.New("priority must be non-negative")
	}
	return nil
}

// SortTransitions orders transitions by Priority descending, keeping
// declaration order between equal priorities.
func SortTransitions(transitions []TransitionConfig) {
	sort.SliceStable(transitions, func(i, j int) bool {
		return transitions[i].Priority > transitions[j].Priority
	})
}
