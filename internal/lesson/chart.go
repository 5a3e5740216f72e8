package lesson

import (
	"github.com/comalice/countlesson/internal/primitives"
)

// Chart events.
const (
	EventStart   = "START"
	EventSkip    = "SKIP"
	EventNext    = "NEXT"
	EventAdHoc   = "ADHOC"
	EventResume  = "RESUME"
	EventSubmit  = "SUBMIT"
	EventRetry   = "RETRY"
	EventCorrect = "CORRECT"
	EventAdvance = "ADVANCE"
	EventMenu    = "MENU"
)

// ChartID is the machine id used in published transitions.
const ChartID = "countlesson"

// Guards are the conditions the chart consults. A nil guard never passes.
type Guards struct {
	FirstExample    func() bool
	ExampleFinished func() bool
	AdHoc           func() bool
	IntakeOpen      func() bool
	LastExercise    func() bool
}

func guarded(name string, fn func() bool, priority int) primitives.TransitionConfig {
	return primitives.TransitionConfig{
		GuardName: name,
		Priority:  priority,
		Guard:     func(primitives.Event) bool { return fn != nil && fn() },
	}
}

// NewChart builds the lesson phase chart.
func NewChart(g Guards) (primitives.MachineConfig, error) {
	b := primitives.NewMachineBuilder(ChartID, "idle")
	b.State("idle").Transition(EventStart, "lesson")

	lesson := b.Compound("lesson").WithInitial("example").
		Transition(EventMenu, "idle")
	lesson.Atomic("example").
		Transition(EventSkip, "lesson.asking", guarded("firstExample", g.FirstExample, 0)).
		Transition(EventNext, "lesson.asking", guarded("exampleFinished", g.ExampleFinished, 0)).
		Transition(EventResume, "lesson.asking", guarded("adHoc", g.AdHoc, 0))
	lesson.Atomic("asking").
		Transition(EventAdHoc, "lesson.example").
		Transition(EventSubmit, "lesson.evaluating", guarded("intakeOpen", g.IntakeOpen, 0))
	lesson.Atomic("evaluating").
		Transition(EventRetry, "lesson.asking").
		Transition(EventCorrect, "lesson.transition").
		Transition(EventCorrect, "lesson.complete", guarded("lastExercise", g.LastExercise, 1))
	lesson.Atomic("transition").
		Transition(EventAdvance, "lesson.asking").
		Transition(EventAdHoc, "lesson.example")
	lesson.Final("complete")

	return b.Build()
}

var phaseByPath = map[string]Phase{
	"idle":              PhaseIdle,
	"lesson.example":    PhaseExample,
	"lesson.asking":     PhaseAsking,
	"lesson.evaluating": PhaseEvaluating,
	"lesson.transition": PhaseTransition,
	"lesson.complete":   PhaseComplete,
}

// PhaseOf maps a chart leaf path to its Phase.
func PhaseOf(path string) Phase {
	return phaseByPath[path]
}
