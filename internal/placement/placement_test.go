package placement

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/countlesson/internal/geometry"
)

var scene = geometry.Size{Width: 720, Height: 360}

func sceneObstacles() []geometry.Rect {
	return []geometry.Rect{
		geometry.Rect{X: 336, Y: 156, W: 48, H: 48}.Inflate(16),
		geometry.Rect{X: 12, Y: 8, W: 40, H: 40}.Inflate(8),
		geometry.Rect{X: 668, Y: 8, W: 40, H: 40}.Inflate(8),
	}
}

func seeded(seed uint64) *Engine {
	return NewEngine(DefaultConfig(), WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))))
}

func assertNoOverlap(t *testing.T, cfg Config, tokens []Token, obstacles []geometry.Rect) {
	t.Helper()
	minDistSq := cfg.MinDist() * cfg.MinDist()
	for i := range tokens {
		for j := i + 1; j < len(tokens); j++ {
			d := tokens[i].Center.DistSq(tokens[j].Center)
			assert.GreaterOrEqualf(t, d, minDistSq, "tokens %d and %d too close", i, j)
		}
		for k, ob := range obstacles {
			assert.Falsef(t, tokens[i].Bounds(cfg.Diameter).Intersects(ob), "token %d overlaps obstacle %d", i, k)
		}
	}
}

func TestPlaceGroup_NoOverlap(t *testing.T) {
	obstacles := sceneObstacles()
	left, right := geometry.RectOf(scene).SplitVertical()

	for seed := uint64(1); seed <= 50; seed++ {
		e := seeded(seed)
		cfg := e.Config()

		a := e.PlaceGroup(9, GroupA, left, obstacles, nil)
		b := e.PlaceGroup(9, GroupB, right, obstacles, a)

		all := append(append([]Token(nil), a...), b...)
		assertNoOverlap(t, cfg, all, obstacles)

		for _, tok := range a {
			assert.Equal(t, GroupA, tok.Group)
			inner := left.Inflate(-cfg.Padding)
			assert.True(t, inner.Contains(tok.Center), "center %v outside padded region", tok.Center)
			assert.GreaterOrEqual(t, tok.Center.X-cfg.Diameter/2, left.X+cfg.Padding)
			assert.LessOrEqual(t, tok.Center.X+cfg.Diameter/2, left.Right()-cfg.Padding)
		}
		for _, tok := range b {
			assert.Equal(t, GroupB, tok.Group)
			assert.GreaterOrEqual(t, tok.Center.X-cfg.Diameter/2, right.X+cfg.Padding)
		}
	}
}

func TestPlaceGroup_UniqueIDs(t *testing.T) {
	e := seeded(7)
	tokens := e.PlaceGroup(9, GroupA, geometry.RectOf(scene), nil, nil)
	seen := map[string]bool{}
	for _, tok := range tokens {
		require.False(t, seen[tok.ID.String()])
		seen[tok.ID.String()] = true
	}
}

func TestPlaceGroup_Deterministic(t *testing.T) {
	a := seeded(42).PlaceGroup(5, GroupA, geometry.RectOf(scene), sceneObstacles(), nil)
	b := seeded(42).PlaceGroup(5, GroupA, geometry.RectOf(scene), sceneObstacles(), nil)
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Center, b[i].Center)
	}
}

func TestPlaceGroup_ZeroCount(t *testing.T) {
	assert.Empty(t, seeded(1).PlaceGroup(0, GroupA, geometry.RectOf(scene), nil, nil))
	assert.Empty(t, seeded(1).PlaceGroup(-3, GroupA, geometry.RectOf(scene), nil, nil))
}

func TestPlaceGroup_StarvationSkipsSilently(t *testing.T) {
	e := seeded(3)
	cfg := e.Config()

	// Room for very few 36px tokens with a 42px pitch.
	region := geometry.Rect{W: 120, H: 120}
	tokens := e.PlaceGroup(20, GroupA, region, nil, nil)

	assert.Less(t, len(tokens), 20)
	assert.NotEmpty(t, tokens)
	assertNoOverlap(t, cfg, tokens, nil)
}

func TestPlaceGroup_RegionTooSmall(t *testing.T) {
	tokens := seeded(1).PlaceGroup(3, GroupA, geometry.Rect{W: 40, H: 400}, nil, nil)
	assert.Empty(t, tokens)
}

func TestPlaceGroup_FullyObstructed(t *testing.T) {
	region := geometry.RectOf(scene)
	tokens := seeded(1).PlaceGroup(3, GroupA, region, []geometry.Rect{region}, nil)
	assert.Empty(t, tokens)
}

func TestPlaceExtras_AvoidExistingAndEachOther(t *testing.T) {
	obstacles := sceneObstacles()
	left, right := geometry.RectOf(scene).SplitVertical()

	for seed := uint64(1); seed <= 30; seed++ {
		e := seeded(seed)
		existing := append(
			e.PlaceGroup(4, GroupA, left, obstacles, nil),
			e.PlaceGroup(3, GroupB, right, obstacles, nil)...,
		)
		before := append([]Token(nil), existing...)

		extras := e.PlaceExtras(2, existing, scene, obstacles)

		assert.Equal(t, before, existing, "existing tokens must not be disturbed")
		require.Len(t, extras, 2)
		for _, x := range extras {
			assert.Equal(t, GroupExtra, x.Group)
		}
		assertNoOverlap(t, e.Config(), append(existing, extras...), obstacles)
	}
}

func TestIDs(t *testing.T) {
	tokens := seeded(9).PlaceGroup(3, GroupA, geometry.RectOf(scene), nil, nil)
	ids := IDs(tokens)
	require.Len(t, ids, len(tokens))
	for i := range tokens {
		assert.Equal(t, tokens[i].ID, ids[i])
	}
}
