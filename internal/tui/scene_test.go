package tui

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/comalice/countlesson/internal/geometry"
	"github.com/comalice/countlesson/internal/lesson"
	"github.com/comalice/countlesson/internal/narration"
	"github.com/comalice/countlesson/internal/placement"
)

func token(g placement.Group, x, y float64) placement.Token {
	return placement.Token{ID: uuid.New(), Group: g, Center: geometry.Point{X: x, Y: y}}
}

func TestScene_TokensAndMarks(t *testing.T) {
	s := NewScene()
	a := token(placement.GroupA, 100, 100)
	b := token(placement.GroupB, 500, 300)
	e := token(placement.GroupExtra, 300, 400)
	s.RenderToken(a, 36, "#ef4444")
	s.RenderToken(b, 36, "#3b82f6")
	s.RenderToken(e, 36, "")

	s.Mark([]uuid.UUID{a.ID, b.ID, uuid.New()}, narration.MarkCounting, true)
	s.Mark([]uuid.UUID{b.ID}, narration.MarkCounting, false)
	s.Recolor([]uuid.UUID{a.ID, b.ID}, "#22c55e")

	snap := s.Snapshot()
	assert.Len(t, snap.Tokens, 3)
	assert.Equal(t, 1, snap.MarkedCount(narration.MarkCounting))
	assert.Equal(t, "#22c55e", snap.Tokens[0].Hex)
	assert.Equal(t, "", snap.Tokens[2].Hex)
	assert.Equal(t, []GroupCount{{placement.GroupA, 1}, {placement.GroupB, 1}, {placement.GroupExtra, 1}}, snap.Groups())

	s.RemoveTokens(func(t placement.Token) bool { return t.Group == placement.GroupExtra })
	snap = s.Snapshot()
	assert.Len(t, snap.Tokens, 2)
	assert.Equal(t, a.ID, snap.Tokens[0].Token.ID)
}

func TestScene_SnapshotIsCopy(t *testing.T) {
	s := NewScene()
	a := token(placement.GroupA, 100, 100)
	s.RenderToken(a, 36, "#ef4444")
	snap := s.Snapshot()
	s.Mark([]uuid.UUID{a.ID}, narration.MarkGhost, true)
	assert.Zero(t, snap.MarkedCount(narration.MarkGhost))
	assert.Equal(t, 1, s.Snapshot().MarkedCount(narration.MarkGhost))
}

func TestScene_Obstacles(t *testing.T) {
	s := NewScene()
	for _, id := range []string{"plus", "count-left", "count-right"} {
		r, ok := s.MeasureObstacle(id)
		assert.True(t, ok, id)
		bounds := geometry.RectOf(s.SceneBounds())
		assert.True(t, bounds.Contains(r.Center()), id)
	}
	_, ok := s.MeasureObstacle("keypad")
	assert.False(t, ok)
}

func TestScene_InputRevision(t *testing.T) {
	s := NewScene()
	s.typed("4")
	assert.Equal(t, "4", s.Text())
	assert.Zero(t, s.Snapshot().InputRev)

	s.SetText("")
	snap := s.Snapshot()
	assert.Equal(t, "", snap.Input)
	assert.Equal(t, uint64(1), snap.InputRev)
}

func TestScene_MenuClearsOperands(t *testing.T) {
	s := NewScene()
	s.SetOperands(3, 4)
	s.SetLabelValue(lesson.Left, 3, lesson.Palette[0])
	s.SetLabelValue(lesson.Right, 4, lesson.Palette[1])
	snap := s.Snapshot()
	assert.True(t, snap.HasOperands)
	assert.Equal(t, 4, snap.Right.Value)

	s.SetAffordances(lesson.Affordances{StartVisible: true})
	snap = s.Snapshot()
	assert.False(t, snap.HasOperands)
	assert.False(t, snap.Left.Set)
	assert.False(t, snap.Right.Set)
}
