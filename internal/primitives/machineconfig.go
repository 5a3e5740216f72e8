package primitives

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// MachineConfig defines the complete chart. States holds top-level states
// only; nested states are reached through Children and addressed by
// dot-separated paths.
type MachineConfig struct {
	ID      string                  `json:"id" yaml:"id"`
	Initial string                  `json:"initial" yaml:"initial"`
	States  map[string]*StateConfig `json:"states" yaml:"states"`
}

// Validate validates the entire machine configuration:
//   - non-empty ID and Initial, and Initial names a top-level state
//   - every state validates (recursive)
//   - every transition target resolves to a state
//   - every top-level state is reachable from Initial
func (m *MachineConfig) Validate() error {
	if m.ID == "" {
		return errors.New("machine ID is required")
	}
	if m.Initial == "" {
		return errors.New("initial state ID is required")
	}
	if len(m.States) == 0 {
		return errors.New("states map is required and cannot be empty")
	}
	initialState, ok := m.States[m.Initial]
	if !ok {
		return fmt.Errorf("initial state %q not found in states", m.Initial)
	}

	for _, sid := range m.TopLevelIDs() {
		state := m.States[sid]
		if state.ID != sid {
			return fmt.Errorf("state key %q does not match state ID %q", sid, state.ID)
		}
		if err := state.Validate(); err != nil {
			return fmt.Errorf("state %q validation failed: %w", sid, err)
		}
	}

	var targetErr error
	m.Walk(func(path string, s *StateConfig) {
		if targetErr != nil {
			return
		}
		for event, transitions := range s.On {
			for i, trans := range transitions {
				if _, err := m.FindState(trans.Target); err != nil {
					targetErr = fmt.Errorf("invalid transition target %q (state %q, event %q, transition %d): %w", trans.Target, path, event, i, err)
					return
				}
			}
		}
	})
	if targetErr != nil {
		return targetErr
	}

	visited := make(map[string]bool)
	m.markReachable(initialState, visited)
	for _, sid := range m.TopLevelIDs() {
		if !visited[sid] {
			return fmt.Errorf("orphaned state %q (not reachable from initial %q)", sid, m.Initial)
		}
	}

	return nil
}

// markReachable marks top-level states reachable from state through
// transitions declared anywhere in its subtree.
func (m *MachineConfig) markReachable(state *StateConfig, visited map[string]bool) {
	if visited[state.ID] {
		return
	}
	visited[state.ID] = true

	var follow func(s *StateConfig)
	follow = func(s *StateConfig) {
		for _, transitions := range s.On {
			for _, trans := range transitions {
				top := strings.Split(trans.Target, ".")[0]
				if next, ok := m.States[top]; ok {
					m.markReachable(next, visited)
				}
			}
		}
		for _, child := range s.Children {
			follow(child)
		}
	}
	follow(state)
}

// FindState resolves a state by hierarchical path (e.g. "lesson.asking").
func (m *MachineConfig) FindState(path string) (*StateConfig, error) {
	if path == "" {
		return nil, errors.New("path cannot be empty")
	}
	segments := strings.Split(path, ".")
	current, ok := m.States[segments[0]]
	if !ok {
		return nil, fmt.Errorf("state %q not found", segments[0])
	}
	for i := 1; i < len(segments); i++ {
		next := current.Child(segments[i])
		if next == nil {
			prefix := strings.Join(segments[:i], ".")
			return nil, fmt.Errorf("child %q not found in %q", segments[i], prefix)
		}
		current = next
	}
	return current, nil
}

// TopLevelIDs returns the top-level state IDs, Initial first and the rest sorted.
func (m *MachineConfig) TopLevelIDs() []string {
	ids := make([]string, 0, len(m.States))
	for id := range m.States {
		if id != m.Initial {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if _, ok := m.States[m.Initial]; ok {
		ids = append([]string{m.Initial}, ids...)
	}
	return ids
}

// Walk visits every state depth-first in a stable order, passing its full path.
func (m *MachineConfig) Walk(fn func(path string, s *StateConfig)) {
	var visit func(prefix string, s *StateConfig)
	visit = func(prefix string, s *StateConfig) {
		path := s.ID
		if prefix != "" {
			path = prefix + "." + s.ID
		}
		fn(path, s)
		for _, child := range s.Children {
			visit(path, child)
		}
	}
	for _, id := range m.TopLevelIDs() {
		visit("", m.States[id])
	}
}
