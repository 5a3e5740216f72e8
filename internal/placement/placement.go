// Package placement decides where circular tokens may sit on the scene.
//
// Placement is best-effort random packing: every token gets a bounded number
// of random trials inside its region and is silently left out when none of
// them is legal. Callers must therefore treat the returned slice length, not
// the requested count, as the number of tokens on screen.
//
// The engine keeps no layout state between calls. Every call receives the
// complete occupancy and obstacle context and returns fresh token descriptors.
package placement

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/comalice/countlesson/internal/geometry"
)

// Group identifies which quantity a token belongs to.
type Group string

const (
	GroupA     Group = "A"
	GroupB     Group = "B"
	GroupExtra Group = "extra"
)

// Token is one placed circle. Tokens are immutable once placed.
type Token struct {
	ID     uuid.UUID      `json:"id" yaml:"id"`
	Group  Group          `json:"group" yaml:"group"`
	Center geometry.Point `json:"center" yaml:"center"`
}

// Bounds returns the square occupied by a token of diameter d.
func (t Token) Bounds(d float64) geometry.Rect {
	return geometry.SquareAround(t.Center, d)
}

// IDs returns the ids of tokens in order.
func IDs(tokens []Token) []uuid.UUID {
	ids := make([]uuid.UUID, len(tokens))
	for i, t := range tokens {
		ids[i] = t.ID
	}
	return ids
}

// Config holds the token geometry and trial budgets.
type Config struct {
	Diameter    float64 `json:"diameter" yaml:"diameter"`
	MinGap      float64 `json:"min_gap" yaml:"min_gap"`
	Padding     float64 `json:"padding" yaml:"padding"`
	GroupTrials int     `json:"group_trials" yaml:"group_trials"`
	ExtraTrials int     `json:"extra_trials" yaml:"extra_trials"`
}

// DefaultConfig returns the layout used by the lesson screen.
func DefaultConfig() Config {
	return Config{
		Diameter:    36,
		MinGap:      6,
		Padding:     10,
		GroupTrials: 500,
		ExtraTrials: 600,
	}
}

// MinDist is the minimum center-to-center distance between two tokens.
func (c Config) MinDist() float64 {
	return c.Diameter + c.MinGap
}

// Engine places tokens. It is not safe for concurrent use because it owns a
// *rand.Rand; the lesson only calls it while holding its own lock.
type Engine struct {
	cfg    Config
	rng    *rand.Rand
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source. Tests use a seeded PCG for reproducible layouts.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithLogger sets the logger used to report starvation.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine creates an Engine for cfg.
func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

// Config returns the engine's geometry.
func (e *Engine) Config() Config {
	return e.cfg
}

// PlaceGroup places up to count tokens of group inside region.
// Tokens keep MinDist from each other and from every token in placed, and
// never overlap an obstacle.
func (e *Engine) PlaceGroup(count int, group Group, region geometry.Rect, obstacles []geometry.Rect, placed []Token) []Token {
	return e.place(count, group, region, obstacles, placed, e.cfg.GroupTrials)
}

// PlaceExtras places up to count extra tokens anywhere in the scene without
// touching existing tokens, obstacles, or extras placed earlier in the batch.
// existing is only read.
func (e *Engine) PlaceExtras(count int, existing []Token, scene geometry.Size, obstacles []geometry.Rect) []Token {
	return e.place(count, GroupExtra, geometry.RectOf(scene), obstacles, existing, e.cfg.ExtraTrials)
}

func (e *Engine) place(count int, group Group, region geometry.Rect, obstacles []geometry.Rect, occupied []Token, trials int) []Token {
	if count <= 0 {
		return nil
	}

	d := e.cfg.Diameter
	pad := e.cfg.Padding
	spanX := region.W - d - pad*2
	spanY := region.H - d - pad*2

	out := make([]Token, 0, count)
	if spanX < 0 || spanY < 0 {
		e.logger.Debug("placement region too small",
			zap.String("group", string(group)),
			zap.Float64("width", region.W),
			zap.Float64("height", region.H))
		return out
	}

	minDistSq := e.cfg.MinDist() * e.cfg.MinDist()
	skipped := 0

	for i := 0; i < count; i++ {
		placed := false
		for try := 0; try < trials; try++ {
			x := e.rng.Float64()*spanX + region.X + pad
			y := e.rng.Float64()*spanY + region.Y + pad
			c := geometry.Point{X: x + d/2, Y: y + d/2}

			if collides(c, occupied, minDistSq) || collides(c, out, minDistSq) {
				continue
			}
			if hitsObstacle(geometry.Rect{X: x, Y: y, W: d, H: d}, obstacles) {
				continue
			}

			out = append(out, Token{ID: uuid.New(), Group: group, Center: c})
			placed = true
			break
		}
		if !placed {
			skipped++
		}
	}

	if skipped > 0 {
		e.logger.Debug("placement starvation",
			zap.String("group", string(group)),
			zap.Int("requested", count),
			zap.Int("skipped", skipped))
	}
	return out
}

func collides(c geometry.Point, tokens []Token, minDistSq float64) bool {
	for _, t := range tokens {
		if c.DistSq(t.Center) < minDistSq {
			return true
		}
	}
	return false
}

func hitsObstacle(candidate geometry.Rect, obstacles []geometry.Rect) bool {
	for _, ob := range obstacles {
		if candidate.Intersects(ob) {
			return true
		}
	}
	return false
}
