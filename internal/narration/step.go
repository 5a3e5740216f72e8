package narration

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind enumerates step types.
type Kind int

const (
	KindSpeak Kind = iota
	KindPulse
	KindPulseFor
	KindCount
	KindWait
	KindCall
)

func (k Kind) String() string {
	switch k {
	case KindSpeak:
		return "speak"
	case KindPulse:
		return "pulse"
	case KindPulseFor:
		return "pulseFor"
	case KindCount:
		return "count"
	case KindWait:
		return "wait"
	case KindCall:
		return "call"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Step is one entry of a sequence. Build steps with the constructors below.
type Step struct {
	Kind     Kind
	Text     string
	Group    []uuid.UUID
	Label    string
	Duration time.Duration
	Call     func()
}

// Speak says text.
func Speak(text string) Step {
	return Step{Kind: KindSpeak, Text: text}
}

// Pulse marks group as counting while text is spoken.
func Pulse(group []uuid.UUID, text string) Step {
	return Step{Kind: KindPulse, Group: group, Text: text}
}

// PulseFor marks group as counting for d without narration.
func PulseFor(group []uuid.UUID, d time.Duration) Step {
	return Step{Kind: KindPulseFor, Group: group, Duration: d}
}

// HighlightSequential announces "Contemos los <label>." and counts group out
// one token at a time. An empty group announces the zero case instead.
func HighlightSequential(group []uuid.UUID, label string) Step {
	return Step{Kind: KindCount, Group: group, Label: label}
}

// Recount counts group out from one without an announcement, keeping earlier
// tokens marked so the count accumulates.
func Recount(group []uuid.UUID) Step {
	return Step{Kind: KindCount, Group: group}
}

// Wait suspends for d.
func Wait(d time.Duration) Step {
	return Step{Kind: KindWait, Duration: d}
}

// Call runs fn while the run is still current. fn must be short and must not
// block or call back into the run-token controller.
func Call(fn func()) Step {
	return Step{Kind: KindCall, Call: fn}
}

// CountIntro is the announcement before a count-out.
func CountIntro(label string) string {
	return fmt.Sprintf("Contemos los %s.", label)
}

// CountZero is the announcement for counting an empty group.
func CountZero(label string) string {
	return fmt.Sprintf("Contemos los %s: %s.", label, NumberWord(0))
}
