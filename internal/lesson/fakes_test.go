package lesson

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comalice/countlesson/internal/geometry"
	"github.com/comalice/countlesson/internal/narration"
	"github.com/comalice/countlesson/internal/placement"
)

type drawnToken struct {
	tok placement.Token
	hex string
}

// fakeScene implements Renderer, Panel and InputSurface.
type fakeScene struct {
	mu sync.Mutex

	tokens map[uuid.UUID]drawnToken
	marks  map[narration.Mark]map[uuid.UUID]bool
	labels map[Side]int

	a, b        int
	result      string
	message     string
	label       string
	affordances Affordances

	input        string
	inputEnabled bool
}

func newFakeScene() *fakeScene {
	return &fakeScene{
		tokens: map[uuid.UUID]drawnToken{},
		marks:  map[narration.Mark]map[uuid.UUID]bool{},
		labels: map[Side]int{},
	}
}

func (f *fakeScene) Mark(ids []uuid.UUID, m narration.Mark, on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.marks[m] == nil {
		f.marks[m] = map[uuid.UUID]bool{}
	}
	for _, id := range ids {
		if on {
			f.marks[m][id] = true
		} else {
			delete(f.marks[m], id)
		}
	}
}

func (f *fakeScene) RenderToken(tok placement.Token, _ float64, hex string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[tok.ID] = drawnToken{tok: tok, hex: hex}
}

func (f *fakeScene) RemoveTokens(match func(placement.Token) bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, d := range f.tokens {
		if match(d.tok) {
			delete(f.tokens, id)
			for _, set := range f.marks {
				delete(set, id)
			}
		}
	}
}

func (f *fakeScene) SetLabelValue(side Side, n int, _ Color) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.labels[side] = n
}

func (f *fakeScene) MeasureObstacle(id string) (geometry.Rect, bool) {
	switch id {
	case "plus":
		return geometry.Rect{X: 380, Y: 180, W: 40, H: 40}, true
	case "count-left":
		return geometry.Rect{X: 10, Y: 10, W: 30, H: 30}, true
	case "count-right":
		return geometry.Rect{X: 760, Y: 10, W: 30, H: 30}, true
	}
	return geometry.Rect{}, false
}

func (f *fakeScene) SceneBounds() geometry.Size {
	return geometry.Size{Width: 800, Height: 400}
}

func (f *fakeScene) Recolor(ids []uuid.UUID, hex string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if d, ok := f.tokens[id]; ok {
			d.hex = hex
			f.tokens[id] = d
		}
	}
}

func (f *fakeScene) SetOperands(a, b int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.a, f.b = a, b
}

func (f *fakeScene) SetResult(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = text
}

func (f *fakeScene) SetMessage(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.message = text
}

func (f *fakeScene) SetLessonLabel(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.label = text
}

func (f *fakeScene) SetAffordances(a Affordances) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.affordances = a
}

func (f *fakeScene) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

func (f *fakeScene) SetText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = text
}

func (f *fakeScene) SetEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputEnabled = enabled
}

func (f *fakeScene) count(match func(drawnToken) bool) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, d := range f.tokens {
		if match(d) {
			n++
		}
	}
	return n
}

func (f *fakeScene) marked(m narration.Mark) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.marks[m])
}

func (f *fakeScene) msg() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

func (f *fakeScene) aff() Affordances {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.affordances
}

func (f *fakeScene) enabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inputEnabled
}

func (f *fakeScene) lessonLabel() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.label
}

// fakeNarrator records speech. With hold set, Speak blocks until its context
// is done or release is called.
type fakeNarrator struct {
	mu      sync.Mutex
	said    []string
	hold    bool
	started chan string
	release chan struct{}
}

func newFakeNarrator() *fakeNarrator {
	return &fakeNarrator{started: make(chan string, 64), release: make(chan struct{})}
}

func (n *fakeNarrator) Speak(ctx context.Context, text string) {
	if ctx.Err() != nil {
		return
	}
	n.mu.Lock()
	n.said = append(n.said, text)
	hold := n.hold
	n.mu.Unlock()
	if !hold {
		return
	}
	select {
	case n.started <- text:
	default:
	}
	select {
	case <-ctx.Done():
	case <-n.release:
	}
}

func (n *fakeNarrator) CancelOngoing() {}

func (n *fakeNarrator) setHold(hold bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hold = hold
}

func (n *fakeNarrator) spoken() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.said...)
}

func (n *fakeNarrator) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.said = nil
}

type instantSleeper struct{}

func (instantSleeper) Sleep(context.Context, time.Duration) {}
