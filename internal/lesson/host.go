package lesson

import (
	"github.com/google/uuid"

	"github.com/comalice/countlesson/internal/geometry"
	"github.com/comalice/countlesson/internal/narration"
	"github.com/comalice/countlesson/internal/placement"
)

// Side selects one of the two count labels in the scene corners.
type Side int

const (
	Left Side = iota
	Right
)

// Renderer draws tokens and labels and reports scene geometry.
// Implementations must not call back into the Lesson.
type Renderer interface {
	narration.Marker

	// RenderToken draws tok; an empty hex draws it uncolored.
	RenderToken(tok placement.Token, diameter float64, hex string)
	// RemoveTokens removes every drawn token for which match returns true.
	RemoveTokens(match func(placement.Token) bool)
	SetLabelValue(side Side, n int, color Color)
	MeasureObstacle(id string) (geometry.Rect, bool)
	SceneBounds() geometry.Size
	Recolor(ids []uuid.UUID, hex string)
}

// Panel shows the exercise chrome around the scene.
type Panel interface {
	SetOperands(a, b int)
	// SetResult shows the big total; "" hides it.
	SetResult(text string)
	SetMessage(text string)
	SetLessonLabel(text string)
	SetAffordances(a Affordances)
}

// InputSurface is the answer field.
type InputSurface interface {
	Text() string
	SetText(text string)
	SetEnabled(enabled bool)
}

// Host bundles the collaborators a Lesson drives.
type Host struct {
	Renderer Renderer
	Panel    Panel
	Input    InputSurface
	Narrator narration.Narrator
}

func allTokens(placement.Token) bool { return true }

func extraTokens(t placement.Token) bool { return t.Group == placement.GroupExtra }
