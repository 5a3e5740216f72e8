// Package tui hosts a lesson in a terminal with bubbletea.
//
// Scene is the shared surface between the lesson and the bubbletea program.
// The lesson writes to it from its own goroutines; the program reads a
// Snapshot on every tick and renders it. Scene never calls into the lesson.
package tui

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/comalice/countlesson/internal/geometry"
	"github.com/comalice/countlesson/internal/lesson"
	"github.com/comalice/countlesson/internal/narration"
	"github.com/comalice/countlesson/internal/placement"
)

// Scene coordinates are virtual pixels mapped onto a character grid.
const (
	SceneWidth  = 720
	SceneHeight = 432
	CellWidth   = 12
	CellHeight  = 24

	Cols = SceneWidth / CellWidth
	Rows = SceneHeight / CellHeight
)

// Obstacle rectangles in scene coordinates, keyed by the ids the lesson registers.
var obstacles = map[string]geometry.Rect{
	"plus":        {X: SceneWidth/2 - 24, Y: SceneHeight/2 - 24, W: 48, H: 48},
	"count-left":  {X: 0, Y: 0, W: 96, H: 48},
	"count-right": {X: SceneWidth - 96, Y: 0, W: 96, H: 48},
}

// DrawnToken is a token as currently shown.
type DrawnToken struct {
	Token placement.Token
	Hex   string
	Marks map[narration.Mark]bool
}

// Label is one corner count.
type Label struct {
	Value int
	Color lesson.Color
	Set   bool
}

// Snapshot is a consistent copy of everything the view shows.
type Snapshot struct {
	Tokens      []DrawnToken
	Left, Right Label
	A, B        int
	HasOperands bool
	Result      string
	Message     string
	LessonLabel string
	Affordances lesson.Affordances
	Input       string
	InputRev    uint64
	Enabled     bool
	Subtitle    string
}

// Scene implements lesson.Renderer, lesson.Panel and lesson.InputSurface.
type Scene struct {
	mu sync.Mutex

	tokens map[uuid.UUID]*DrawnToken
	order  []uuid.UUID

	left, right Label
	a, b        int
	hasOperands bool
	result      string
	message     string
	lessonLabel string
	aff         lesson.Affordances

	input    string
	inputRev uint64
	enabled  bool

	subtitle string
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{tokens: make(map[uuid.UUID]*DrawnToken)}
}

// RenderToken implements lesson.Renderer.
func (s *Scene) RenderToken(tok placement.Token, _ float64, hex string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[tok.ID]; !ok {
		s.order = append(s.order, tok.ID)
	}
	s.tokens[tok.ID] = &DrawnToken{Token: tok, Hex: hex, Marks: make(map[narration.Mark]bool)}
}

// RemoveTokens implements lesson.Renderer.
func (s *Scene) RemoveTokens(match func(placement.Token) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.order[:0]
	for _, id := range s.order {
		if match(s.tokens[id].Token) {
			delete(s.tokens, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}

// Mark implements narration.Marker. Unknown ids are ignored.
func (s *Scene) Mark(ids []uuid.UUID, mark narration.Mark, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		t, ok := s.tokens[id]
		if !ok {
			continue
		}
		if on {
			t.Marks[mark] = true
		} else {
			delete(t.Marks, mark)
		}
	}
}

// Recolor implements lesson.Renderer.
func (s *Scene) Recolor(ids []uuid.UUID, hex string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if t, ok := s.tokens[id]; ok {
			t.Hex = hex
		}
	}
}

// SetLabelValue implements lesson.Renderer.
func (s *Scene) SetLabelValue(side lesson.Side, n int, color lesson.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := Label{Value: n, Color: color, Set: true}
	if side == lesson.Left {
		s.left = l
	} else {
		s.right = l
	}
}

// MeasureObstacle implements lesson.Renderer. The corner labels keep their
// place even before a value is shown.
func (s *Scene) MeasureObstacle(id string) (geometry.Rect, bool) {
	r, ok := obstacles[id]
	return r, ok
}

// SceneBounds implements lesson.Renderer.
func (s *Scene) SceneBounds() geometry.Size {
	return geometry.Size{Width: SceneWidth, Height: SceneHeight}
}

// SetOperands implements lesson.Panel.
func (s *Scene) SetOperands(a, b int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a, s.b, s.hasOperands = a, b, true
}

// SetResult implements lesson.Panel.
func (s *Scene) SetResult(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = text
}

// SetMessage implements lesson.Panel.
func (s *Scene) SetMessage(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = text
}

// SetLessonLabel implements lesson.Panel.
func (s *Scene) SetLessonLabel(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lessonLabel = text
}

// SetAffordances implements lesson.Panel. Leaving the lesson clears the
// operands and labels.
func (s *Scene) SetAffordances(a lesson.Affordances) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aff = a
	if a.StartVisible {
		s.hasOperands = false
		s.left, s.right = Label{}, Label{}
	}
}

// Text implements lesson.InputSurface.
func (s *Scene) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// SetText implements lesson.InputSurface. The revision tells the program
// to copy the text into its input widget.
func (s *Scene) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
	s.inputRev++
}

// SetEnabled implements lesson.InputSurface.
func (s *Scene) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// typed records text entered in the widget without bumping the revision.
func (s *Scene) typed(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

func (s *Scene) setSubtitle(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subtitle = text
}

// Snapshot copies the scene.
func (s *Scene) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Tokens:      make([]DrawnToken, 0, len(s.order)),
		Left:        s.left,
		Right:       s.right,
		A:           s.a,
		B:           s.b,
		HasOperands: s.hasOperands,
		Result:      s.result,
		Message:     s.message,
		LessonLabel: s.lessonLabel,
		Affordances: s.aff,
		Input:       s.input,
		InputRev:    s.inputRev,
		Enabled:     s.enabled,
		Subtitle:    s.subtitle,
	}
	for _, id := range s.order {
		t := s.tokens[id]
		marks := make(map[narration.Mark]bool, len(t.Marks))
		for m := range t.Marks {
			marks[m] = true
		}
		snap.Tokens = append(snap.Tokens, DrawnToken{Token: t.Token, Hex: t.Hex, Marks: marks})
	}
	return snap
}

// MarkedCount returns how many tokens carry mark.
func (s Snapshot) MarkedCount(mark narration.Mark) int {
	n := 0
	for _, t := range s.Tokens {
		if t.Marks[mark] {
			n++
		}
	}
	return n
}

// Groups returns the token count per group, sorted by group name.
func (s Snapshot) Groups() []GroupCount {
	counts := make(map[placement.Group]int)
	for _, t := range s.Tokens {
		counts[t.Token.Group]++
	}
	out := make([]GroupCount, 0, len(counts))
	for g, n := range counts {
		out = append(out, GroupCount{Group: g, N: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}

// GroupCount is a per-group token tally.
type GroupCount struct {
	Group placement.Group
	N     int
}
