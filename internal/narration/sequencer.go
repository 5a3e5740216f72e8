package narration

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/comalice/countlesson/internal/runtoken"
)

// DefaultBetween is the pause after each counted token.
const DefaultBetween = 180 * time.Millisecond

// Sequencer executes step sequences.
type Sequencer struct {
	runs     *runtoken.Controller
	narrator Narrator
	marker   Marker
	sleeper  Sleeper
	between  time.Duration
	logger   *zap.Logger
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithSleeper replaces the real timer. Tests pass an instant sleeper.
func WithSleeper(s Sleeper) Option {
	return func(q *Sequencer) {
		q.sleeper = s
	}
}

// WithBetween sets the pause after each counted token.
func WithBetween(d time.Duration) Option {
	return func(q *Sequencer) {
		q.between = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(q *Sequencer) {
		q.logger = l
	}
}

// NewSequencer creates a Sequencer speaking through narrator and marking
// through marker, guarded by runs.
func NewSequencer(runs *runtoken.Controller, narrator Narrator, marker Marker, opts ...Option) *Sequencer {
	q := &Sequencer{
		runs:     runs,
		narrator: narrator,
		marker:   marker,
		sleeper:  TimerSleeper{},
		between:  DefaultBetween,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Run executes steps in order under tok. It returns true if every step ran
// and tok is still current, false if the run was abandoned.
func (q *Sequencer) Run(tok runtoken.Token, steps []Step) bool {
	for i, st := range steps {
		if !q.runs.IsCurrent(tok) || !q.exec(tok, st) {
			q.logger.Debug("sequence abandoned",
				zap.Uint64("run", tok.ID()),
				zap.Int("step", i),
				zap.Stringer("kind", st.Kind))
			return false
		}
	}
	return q.runs.IsCurrent(tok)
}

func (q *Sequencer) exec(tok runtoken.Token, st Step) bool {
	switch st.Kind {
	case KindSpeak:
		return q.speak(tok, st.Text)
	case KindPulse:
		return q.pulse(tok, st.Group, st.Text)
	case KindPulseFor:
		return q.pulseFor(tok, st.Group, st.Duration)
	case KindCount:
		return q.count(tok, st.Group, st.Label)
	case KindWait:
		return q.wait(tok, st.Duration)
	case KindCall:
		if st.Call == nil {
			return true
		}
		return q.runs.Apply(tok, st.Call)
	}
	return true
}

func (q *Sequencer) speak(tok runtoken.Token, text string) bool {
	q.narrator.Speak(tok.Context(), text)
	return q.runs.IsCurrent(tok)
}

func (q *Sequencer) wait(tok runtoken.Token, d time.Duration) bool {
	q.sleeper.Sleep(tok.Context(), d)
	return q.runs.IsCurrent(tok)
}

func (q *Sequencer) mark(tok runtoken.Token, ids []uuid.UUID, m Mark, on bool) bool {
	return q.runs.Apply(tok, func() {
		if len(ids) > 0 {
			q.marker.Mark(ids, m, on)
		}
	})
}

func (q *Sequencer) pulse(tok runtoken.Token, group []uuid.UUID, text string) bool {
	if !q.mark(tok, group, MarkCounting, true) {
		return false
	}
	if !q.speak(tok, text) {
		return false
	}
	return q.mark(tok, group, MarkCounting, false)
}

func (q *Sequencer) pulseFor(tok runtoken.Token, group []uuid.UUID, d time.Duration) bool {
	if !q.mark(tok, group, MarkCounting, true) {
		return false
	}
	if !q.wait(tok, d) {
		return false
	}
	return q.mark(tok, group, MarkCounting, false)
}

func (q *Sequencer) count(tok runtoken.Token, group []uuid.UUID, label string) bool {
	if len(group) == 0 {
		if label == "" {
			return true
		}
		return q.speak(tok, CountZero(label))
	}
	if label != "" && !q.speak(tok, CountIntro(label)) {
		return false
	}

	for i, id := range group {
		one := []uuid.UUID{id}
		if !q.runs.Apply(tok, func() {
			q.marker.Mark(one, MarkCounting, true)
			q.marker.Mark(one, MarkHighlight, true)
		}) {
			return false
		}
		if !q.speak(tok, NumberWord(i+1)) {
			return false
		}
		if !q.mark(tok, one, MarkHighlight, false) {
			return false
		}
		if !q.wait(tok, q.between) {
			return false
		}
	}
	return q.mark(tok, group, MarkCounting, false)
}
