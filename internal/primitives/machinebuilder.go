package primitives

// MachineBuilder builds hierarchical MachineConfig fluently.
type MachineBuilder struct {
	config *MachineConfig
	stack  []*StateConfig // open compound states, innermost last
}

// NewMachineBuilder creates a new MachineBuilder.
func NewMachineBuilder(id, initial string) *MachineBuilder {
	return &MachineBuilder{
		config: &MachineConfig{ID: id, Initial: initial, States: make(map[string]*StateConfig)},
	}
}

// Compound starts a top-level compound state and opens it for nesting.
func (b *MachineBuilder) Compound(id string) *StateBuilder {
	s := NewStateConfig(id, Compound)
	b.config.States[id] = s
	b.stack = []*StateConfig{s}
	return &StateBuilder{state: s, mb: b}
}

// Atomic starts a top-level atomic state.
func (b *MachineBuilder) Atomic(id string) *StateBuilder {
	s := NewStateConfig(id, Atomic)
	b.config.States[id] = s
	b.stack = nil
	return &StateBuilder{state: s, mb: b}
}

// State is sugar for Atomic.
func (b *MachineBuilder) State(id string) *StateBuilder {
	return b.Atomic(id)
}

// StateBuilder adds transitions, actions and children to one state.
type StateBuilder struct {
	state *StateConfig
	mb    *MachineBuilder
}

// Config returns the state being built.
func (sb *StateBuilder) Config() *StateConfig {
	return sb.state
}

// Transition adds a transition.
func (sb *StateBuilder) Transition(event, target string, opts ...TransitionConfig) *StateBuilder {
	sb.state.Transition(event, target, opts...)
	return sb
}

// OnEntry adds an entry action.
func (sb *StateBuilder) OnEntry(action Action) *StateBuilder {
	sb.state.AddEntry(action)
	return sb
}

// OnExit adds an exit action.
func (sb *StateBuilder) OnExit(action Action) *StateBuilder {
	sb.state.AddExit(action)
	return sb
}

// parent is the innermost open compound state that children attach to.
func (sb *StateBuilder) parent() *StateConfig {
	if sb.state.Type == Compound {
		return sb.state
	}
	if n := len(sb.mb.stack); n > 0 {
		return sb.mb.stack[n-1]
	}
	return sb.state
}

// Compound nests a compound child and opens it.
func (sb *StateBuilder) Compound(id string) *StateBuilder {
	child := sb.parent().State(id, Compound)
	sb.mb.stack = append(sb.mb.stack, child)
	return &StateBuilder{state: child, mb: sb.mb}
}

// Atomic nests an atomic child.
func (sb *StateBuilder) Atomic(id string) *StateBuilder {
	child := sb.parent().State(id)
	return &StateBuilder{state: child, mb: sb.mb}
}

// Final nests a final child.
func (sb *StateBuilder) Final(id string) *StateBuilder {
	child := sb.parent().State(id, Final)
	return &StateBuilder{state: child, mb: sb.mb}
}

// Up closes the innermost open compound state and returns to its parent.
func (sb *StateBuilder) Up() *StateBuilder {
	if len(sb.mb.stack) > 1 {
		sb.mb.stack = sb.mb.stack[:len(sb.mb.stack)-1]
		return &StateBuilder{state: sb.mb.stack[len(sb.mb.stack)-1], mb: sb.mb}
	}
	if len(sb.mb.stack) == 1 {
		return &StateBuilder{state: sb.mb.stack[0], mb: sb.mb}
	}
	return sb
}

// WithInitial sets the initial child of the current state.
func (sb *StateBuilder) WithInitial(initial string) *StateBuilder {
	sb.state.WithInitial(initial)
	return sb
}

// Build validates and returns the configuration.
func (b *MachineBuilder) Build() (MachineConfig, error) {
	if err := b.config.Validate(); err != nil {
		return MachineConfig{}, err
	}
	return *b.config, nil
}
