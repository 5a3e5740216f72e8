package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/comalice/countlesson/internal/evaluator"
	"github.com/comalice/countlesson/internal/lesson"
)

// Intents are the user actions a lesson accepts. *lesson.Lesson implements it.
type Intents interface {
	Start() error
	SkipExample() error
	AdvanceExplicitly() error
	ReturnToMenu() error
	RequestAdHocExample() error
	SubmitAnswer() error
}

// DefaultTick is how often the program re-reads the scene.
const DefaultTick = 50 * time.Millisecond

type tickMsg time.Time

// Model is the bubbletea model for the lesson screen.
type Model struct {
	scene   *Scene
	intents Intents
	logger  *zap.Logger
	tick    time.Duration

	input    textinput.Model
	help     help.Model
	keys     keyMap
	snap     Snapshot
	inputRev uint64

	width  int
	height int
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithModelLogger sets the logger.
func WithModelLogger(l *zap.Logger) ModelOption {
	return func(m *Model) {
		m.logger = l
	}
}

// WithTick sets the refresh interval.
func WithTick(d time.Duration) ModelOption {
	return func(m *Model) {
		m.tick = d
	}
}

// NewModel creates the lesson screen for scene, forwarding keys to intents.
func NewModel(scene *Scene, intents Intents, opts ...ModelOption) Model {
	ti := textinput.New()
	ti.Prompt = "Respuesta: "
	ti.Placeholder = "0"
	ti.CharLimit = 8
	ti.Width = 10

	m := Model{
		scene:   scene,
		intents: intents,
		logger:  zap.NewNop(),
		tick:    DefaultTick,
		input:   ti,
		help:    help.New(),
		keys:    defaultKeyMap(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.sync()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tickCmd())
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		cmds = append(cmds, m.sync(), m.tickCmd())
		return m, tea.Batch(cmds...)

	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 0)
		m.height = max(msg.Height, 0)
		m.help.Width = m.width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && (msg.Type == tea.KeyCtrlC || !m.input.Focused()) {
			return m, tea.Quit
		}
		if m.input.Focused() && isAnswerKey(msg) {
			break
		}
		if handled := m.dispatch(msg); handled {
			cmds = append(cmds, m.sync())
			return m, tea.Batch(cmds...)
		}
		if msg.Type == tea.KeyRunes {
			return m, nil
		}
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		raw := m.input.Value()
		if clean := evaluator.Sanitize(raw); clean != raw {
			m.input.SetValue(clean)
		}
		m.scene.typed(m.input.Value())
	}
	return m, tea.Batch(cmds...)
}

// dispatch maps a key to an intent. It reports whether a binding matched.
func (m *Model) dispatch(msg tea.KeyMsg) bool {
	var intent string
	var fn func() error
	switch {
	case key.Matches(msg, m.keys.Start):
		intent, fn = "start", m.intents.Start
	case key.Matches(msg, m.keys.Submit):
		intent, fn = "submit", m.intents.SubmitAnswer
	case key.Matches(msg, m.keys.Skip):
		intent, fn = "skip", m.intents.SkipExample
	case key.Matches(msg, m.keys.Next):
		intent, fn = "next", m.intents.AdvanceExplicitly
	case key.Matches(msg, m.keys.Example):
		intent, fn = "example", m.intents.RequestAdHocExample
	case key.Matches(msg, m.keys.Menu):
		intent, fn = "menu", m.intents.ReturnToMenu
	default:
		return false
	}
	if err := fn(); err != nil {
		if errors.Is(err, lesson.ErrIntentRejected) {
			m.logger.Debug("key ignored", zap.String("intent", intent), zap.Error(err))
		} else {
			m.logger.Error("intent failed", zap.String("intent", intent), zap.Error(err))
		}
	}
	return true
}

// sync copies the scene into the model and mirrors lesson-side input changes
// into the widget.
func (m *Model) sync() tea.Cmd {
	m.snap = m.scene.Snapshot()
	m.keys.apply(m.snap.Affordances)
	if m.snap.InputRev != m.inputRev {
		m.inputRev = m.snap.InputRev
		m.input.SetValue(m.snap.Input)
	}
	switch {
	case m.snap.Enabled && !m.input.Focused():
		return m.input.Focus()
	case !m.snap.Enabled && m.input.Focused():
		m.input.Blur()
	}
	return nil
}

// isAnswerKey reports whether msg is text for the answer field.
func isAnswerKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight, tea.KeyHome, tea.KeyEnd:
		return true
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if (r < '0' || r > '9') && r != '.' && r != '-' {
				return false
			}
		}
		return true
	}
	return false
}
