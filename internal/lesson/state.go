package lesson

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/comalice/countlesson/internal/placement"
)

// Phase is the lesson's position in the chart.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseExample
	PhaseAsking
	PhaseEvaluating
	PhaseTransition
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseExample:
		return "example"
	case PhaseAsking:
		return "asking"
	case PhaseEvaluating:
		return "evaluating"
	case PhaseTransition:
		return "transition"
	case PhaseComplete:
		return "complete"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Exercise is one addition problem and the tokens drawn for it.
type Exercise struct {
	ID     uuid.UUID
	A, B   int
	ColorA Color
	ColorB Color
	NodesA []placement.Token
	NodesB []placement.Token
	Run    uint64
}

// Total is A+B.
func (e Exercise) Total() int { return e.A + e.B }

// All returns NodesA followed by NodesB.
func (e Exercise) All() []placement.Token {
	out := make([]placement.Token, 0, len(e.NodesA)+len(e.NodesB))
	out = append(out, e.NodesA...)
	return append(out, e.NodesB...)
}

func (e Exercise) clone() Exercise {
	e.NodesA = append([]placement.Token(nil), e.NodesA...)
	e.NodesB = append([]placement.Token(nil), e.NodesB...)
	return e
}

// Snapshot is what an ad-hoc example saves so the lesson can resume.
type Snapshot struct {
	Index  int
	Input  string
	A, B   int
	ColorA Color
	ColorB Color
}

// State is a read-only view of the lesson.
type State struct {
	Phase           Phase
	Index           int
	IntakeOpen      bool
	ExampleFinished bool
	Saved           *Snapshot
	Exercise        *Exercise
	Extras          []placement.Token
	Ghosts          []uuid.UUID
}

// AdHoc reports whether an ad-hoc example is in progress.
func (s State) AdHoc() bool { return s.Saved != nil }

// Affordances is which controls the panel shows and enables.
type Affordances struct {
	StartVisible   bool
	AnswerVisible  bool
	AnswerEnabled  bool
	CheckVisible   bool
	CheckEnabled   bool
	SkipVisible    bool
	SkipLabel      string
	NextVisible    bool
	ExampleVisible bool
	MenuVisible    bool
}

// AffordancesFor derives the controls from the state alone.
func AffordancesFor(s State) Affordances {
	switch s.Phase {
	case PhaseIdle:
		return Affordances{StartVisible: true}
	case PhaseExample:
		a := Affordances{SkipVisible: true, SkipLabel: SkipLabelDefault, MenuVisible: true}
		if s.AdHoc() {
			a.SkipLabel = SkipLabelReturn
		} else {
			a.NextVisible = s.ExampleFinished
		}
		return a
	case PhaseAsking:
		return Affordances{
			AnswerVisible:  true,
			AnswerEnabled:  s.IntakeOpen,
			CheckVisible:   true,
			CheckEnabled:   s.IntakeOpen,
			ExampleVisible: true,
			MenuVisible:    true,
		}
	case PhaseEvaluating:
		return Affordances{AnswerVisible: true, CheckVisible: true, MenuVisible: true}
	case PhaseTransition:
		return Affordances{AnswerVisible: true, CheckVisible: true, ExampleVisible: true, MenuVisible: true}
	case PhaseComplete:
		return Affordances{AnswerVisible: true, MenuVisible: true}
	}
	return Affordances{}
}
