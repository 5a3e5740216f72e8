// Package core runs a primitives.MachineConfig: it holds the active leaf
// state, selects transitions for events and runs exit, transition and entry
// actions in document order.
//
// Dispatch is synchronous. Send returns once the transition (if any) has been
// taken, so callers that serialize their own intents observe the new state
// immediately.
package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comalice/countlesson/internal/primitives"
)

// ErrNotStarted is returned by Send before Start.
var ErrNotStarted = errors.New("machine not started")

// MachineMetadata describes a transition taken by a Machine.
type MachineMetadata struct {
	MachineID  string    `json:"machineID" yaml:"machineID"`
	Transition string    `json:"transition" yaml:"transition"`
	From       string    `json:"from" yaml:"from"`
	To         string    `json:"to" yaml:"to"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}

// EventPublisher receives every taken transition.
type EventPublisher interface {
	Publish(ctx context.Context, event primitives.Event, metadata MachineMetadata) error
	Close() error
}

// Visualizer renders a chart, highlighting the active states.
type Visualizer interface {
	ExportDOT(config primitives.MachineConfig, current []string) string
	ExportJSON(config primitives.MachineConfig) ([]byte, error)
}

// Option applies configuration to Machine via functional options pattern.
type Option func(*Machine)

// Machine is the runtime instance of a chart. Safe for concurrent use;
// actions run under the machine lock and must not call back into it.
type Machine struct {
	config     primitives.MachineConfig
	current    string // active leaf path
	started    bool
	mu         sync.RWMutex
	stateCache map[string]*primitives.StateConfig

	publisher  EventPublisher
	visualizer Visualizer
	logger     *zap.Logger
}

// NewMachine creates a Machine. Call Start before sending events.
func NewMachine(config primitives.MachineConfig, opts ...Option) *Machine {
	m := &Machine{
		config: config,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Config returns the machine's configuration (shallow copy).
func (m *Machine) Config() primitives.MachineConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Start validates the config and enters the initial leaf, running entry
// actions from the outermost state down. Idempotent.
func (m *Machine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return nil
	}
	if err := m.config.Validate(); err != nil {
		return fmt.Errorf("invalid machine config: %w", err)
	}

	m.stateCache = make(map[string]*primitives.StateConfig)
	m.config.Walk(func(path string, s *primitives.StateConfig) {
		m.stateCache[path] = s
	})

	leaf := resolveInitialLeaf(m.stateCache, m.config.Initial)
	m.runEntries(ancestors(leaf), primitives.NewEvent("", nil))
	m.current = leaf
	m.started = true
	m.logger.Debug("machine started", zap.String("machine", m.config.ID), zap.String("state", leaf))
	return nil
}

// Send dispatches event. It reports whether a transition was taken.
// An event no active state handles, or whose guards all fail, is not an error.
func (m *Machine) Send(event primitives.Event) (bool, error) {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return false, ErrNotStarted
	}

	sourcePath, trans, ok := m.selectTransition(event)
	if !ok {
		m.mu.Unlock()
		return false, nil
	}

	from := m.current
	domain := transitionDomain(sourcePath, trans.Target)
	exits := exitStates(from, domain)
	targetLeaf := resolveInitialLeaf(m.stateCache, trans.Target)
	entries := entryStates(domain, targetLeaf)

	m.runExits(exits, event)
	for _, action := range trans.Actions {
		action(event)
	}
	m.runEntries(entries, event)
	m.current = targetLeaf

	md := MachineMetadata{
		MachineID:  m.config.ID,
		Transition: fmt.Sprintf("%s -> %s", from, targetLeaf),
		From:       from,
		To:         targetLeaf,
		Timestamp:  time.Now(),
	}
	publisher := m.publisher
	m.mu.Unlock()

	m.logger.Debug("transition",
		zap.String("machine", md.MachineID),
		zap.String("event", event.Type),
		zap.String("from", from),
		zap.String("to", targetLeaf))

	if publisher != nil {
		if err := publisher.Publish(context.Background(), event, md); err != nil {
			m.logger.Warn("publish transition failed", zap.Error(err))
		}
	}
	return true, nil
}

// Can reports whether event would take a transition from the current state.
func (m *Machine) Can(event primitives.Event) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.started {
		return false
	}
	_, _, ok := m.selectTransition(event)
	return ok
}

// selectTransition searches the active configuration innermost-first. Within
// one state the first enabled transition in priority order wins.
func (m *Machine) selectTransition(event primitives.Event) (string, primitives.TransitionConfig, bool) {
	chain := ancestors(m.current)
	for i := len(chain) - 1; i >= 0; i-- {
		state, ok := m.stateCache[chain[i]]
		if !ok {
			continue
		}
		for _, trans := range state.On[event.Type] {
			if trans.Allows(event) {
				return chain[i], trans, true
			}
		}
	}
	return "", primitives.TransitionConfig{}, false
}

func (m *Machine) runExits(paths []string, event primitives.Event) {
	for _, p := range paths {
		if s, ok := m.stateCache[p]; ok {
			for _, action := range s.Exit {
				action(event)
			}
		}
	}
}

func (m *Machine) runEntries(paths []string, event primitives.Event) {
	for _, p := range paths {
		if s, ok := m.stateCache[p]; ok {
			for _, action := range s.Entry {
				action(event)
			}
		}
	}
}

// Current returns the active leaf path, or "" before Start.
func (m *Machine) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// In reports whether the state at path is active.
func (m *Machine) In(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current == path || isDescendant(m.current, path)
}

// Visualize returns the Graphviz DOT source of the chart with active states marked.
func (m *Machine) Visualize() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.visualizer == nil {
		return "ERROR: No visualizer configured. Use WithVisualizer(&production.DefaultVisualizer{})"
	}
	var current []string
	if m.current != "" {
		current = []string{m.current}
	}
	return m.visualizer.ExportDOT(m.config, current)
}
