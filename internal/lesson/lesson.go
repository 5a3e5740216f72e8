// Package lesson runs the five-exercise addition lesson.
//
// A Lesson owns the exercise index, the current exercise and the phase chart.
// Intents from the shell (Start, SubmitAnswer, ...) are serialized by one
// mutex; narration sequences run on their own goroutines and report back by
// re-acquiring that mutex and re-checking their run token. Every intent either
// fires a chart transition or fails with ErrIntentRejected.
package lesson

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/comalice/countlesson/internal/core"
	"github.com/comalice/countlesson/internal/evaluator"
	"github.com/comalice/countlesson/internal/geometry"
	"github.com/comalice/countlesson/internal/narration"
	"github.com/comalice/countlesson/internal/placement"
	"github.com/comalice/countlesson/internal/primitives"
	"github.com/comalice/countlesson/internal/runtoken"
)

// ErrIntentRejected is returned when an intent is not legal in the current phase.
var ErrIntentRejected = errors.New("intent rejected")

// Config holds the lesson's geometry and timings.
type Config struct {
	Length           int
	MaxOperand       int
	ExampleResamples int
	Placement        placement.Config
	Obstacles        []geometry.ObstacleSpec
	Between          time.Duration
	Pulse            time.Duration
	NextDelay        time.Duration
}

// DefaultConfig returns the standard lesson settings.
func DefaultConfig() Config {
	return Config{
		Length:           5,
		MaxOperand:       9,
		ExampleResamples: 50,
		Placement:        placement.DefaultConfig(),
		Obstacles: []geometry.ObstacleSpec{
			{ID: "plus", Inflate: 16},
			{ID: "count-left", Inflate: 8},
			{ID: "count-right", Inflate: 8},
		},
		Between:   narration.DefaultBetween,
		Pulse:     900 * time.Millisecond,
		NextDelay: 800 * time.Millisecond,
	}
}

// Option configures a Lesson.
type Option func(*Lesson)

// WithRand sets the source for exercise generation and placement.
func WithRand(r *rand.Rand) Option {
	return func(l *Lesson) {
		l.rng = r
	}
}

// WithSleeper replaces the real timer used by sequences.
func WithSleeper(s narration.Sleeper) Option {
	return func(l *Lesson) {
		l.sleeper = s
	}
}

// WithLogger sets the logger.
func WithLogger(lg *zap.Logger) Option {
	return func(l *Lesson) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// WithPublisher receives every phase transition.
func WithPublisher(p core.EventPublisher) Option {
	return func(l *Lesson) {
		l.publisher = p
	}
}

// WithContext sets the parent of every run token context.
func WithContext(ctx context.Context) Option {
	return func(l *Lesson) {
		l.base = ctx
	}
}

// Lesson is the lesson state machine. Safe for concurrent use.
type Lesson struct {
	mu sync.Mutex
	wg sync.WaitGroup

	cfg       Config
	host      Host
	rng       *rand.Rand
	sleeper   narration.Sleeper
	logger    *zap.Logger
	publisher core.EventPublisher
	base      context.Context

	runs   *runtoken.Controller
	seq    *narration.Sequencer
	engine *placement.Engine
	chart  *core.Machine
	run    runtoken.Token

	index           int
	intakeOpen      bool
	exampleFinished bool
	ex              *Exercise
	extras          []placement.Token
	ghosts          []uuid.UUID
	saved           *Snapshot

	nextPair func() (int, int) // overrides random operands in tests
}

// New creates a Lesson in the idle phase.
func New(cfg Config, host Host, opts ...Option) (*Lesson, error) {
	if host.Renderer == nil || host.Panel == nil || host.Input == nil {
		return nil, errors.New("lesson: renderer, panel and input are required")
	}
	if host.Narrator == nil {
		host.Narrator = narration.SilentNarrator{}
	}
	if cfg.Length < 1 {
		return nil, fmt.Errorf("lesson: length must be positive, got %d", cfg.Length)
	}

	l := &Lesson{
		cfg:     cfg,
		host:    host,
		sleeper: narration.TimerSleeper{},
		logger:  zap.NewNop(),
		base:    context.Background(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.rng == nil {
		l.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	l.runs = runtoken.NewController(l.base, host.Narrator.CancelOngoing)
	l.seq = narration.NewSequencer(l.runs, host.Narrator, host.Renderer,
		narration.WithSleeper(l.sleeper),
		narration.WithBetween(cfg.Between),
		narration.WithLogger(l.logger.Named("narration")))
	l.engine = placement.NewEngine(cfg.Placement,
		placement.WithRand(l.rng),
		placement.WithLogger(l.logger.Named("placement")))

	chartCfg, err := NewChart(Guards{
		FirstExample:    func() bool { return l.index == 0 && l.saved == nil },
		ExampleFinished: func() bool { return l.index == 0 && l.saved == nil && l.exampleFinished },
		AdHoc:           func() bool { return l.saved != nil },
		IntakeOpen:      func() bool { return l.intakeOpen },
		LastExercise:    func() bool { return l.index >= l.cfg.Length-1 },
	})
	if err != nil {
		return nil, fmt.Errorf("lesson: build chart: %w", err)
	}
	machineOpts := []core.Option{core.WithLogger(l.logger.Named("chart"))}
	if l.publisher != nil {
		machineOpts = append(machineOpts, core.WithPublisher(l.publisher))
	}
	l.chart = core.NewMachine(chartCfg, machineOpts...)
	if err := l.chart.Start(); err != nil {
		return nil, fmt.Errorf("lesson: start chart: %w", err)
	}

	l.refresh()
	return l, nil
}

// Chart returns the running phase chart.
func (l *Lesson) Chart() *core.Machine {
	return l.chart
}

// Wait blocks until every sequence goroutine has returned.
func (l *Lesson) Wait() {
	l.wg.Wait()
}

// Close supersedes the current run and waits for all sequences to stop.
func (l *Lesson) Close() {
	l.mu.Lock()
	l.issue()
	l.mu.Unlock()
	l.wg.Wait()
}

// State returns a snapshot of the lesson.
func (l *Lesson) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stateLocked()
}

func (l *Lesson) stateLocked() State {
	s := State{
		Phase:           l.phase(),
		Index:           l.index,
		IntakeOpen:      l.intakeOpen,
		ExampleFinished: l.exampleFinished,
		Extras:          append([]placement.Token(nil), l.extras...),
		Ghosts:          append([]uuid.UUID(nil), l.ghosts...),
	}
	if l.saved != nil {
		saved := *l.saved
		s.Saved = &saved
	}
	if l.ex != nil {
		ex := l.ex.clone()
		s.Exercise = &ex
	}
	return s
}

func (l *Lesson) phase() Phase {
	return PhaseOf(l.chart.Current())
}

// fire sends event to the chart and maps "no transition" to ErrIntentRejected.
func (l *Lesson) fire(intent, event string) error {
	from := l.phase()
	ok, err := l.chart.Send(primitives.NewEvent(event, nil))
	if err != nil {
		return fmt.Errorf("%s: %w", intent, err)
	}
	if !ok {
		l.logger.Debug("intent rejected", zap.String("intent", intent), zap.Stringer("phase", from))
		return fmt.Errorf("%w: %s in phase %s", ErrIntentRejected, intent, from)
	}
	return nil
}

// mustFire is for internal transitions the lesson knows to be legal.
func (l *Lesson) mustFire(event string) {
	if err := l.fire(event, event); err != nil {
		l.logger.Error("internal transition failed", zap.String("event", event), zap.Error(err))
	}
}

// Start enters the lesson at the example exercise.
func (l *Lesson) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.fire("start", EventStart); err != nil {
		return err
	}
	l.index = 0
	l.saved = nil
	l.runExercise()
	return nil
}

// SkipExample leaves the example: at index 0 it jumps to exercise 1, during
// an ad-hoc example it returns to the saved exercise.
func (l *Lesson) SkipExample() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.saved != nil {
		if err := l.fire("skipExample", EventResume); err != nil {
			return err
		}
		l.resumeFromAdHoc()
		return nil
	}
	if err := l.fire("skipExample", EventSkip); err != nil {
		return err
	}
	l.index = 1
	l.runExercise()
	return nil
}

// AdvanceExplicitly moves past the finished example.
func (l *Lesson) AdvanceExplicitly() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.fire("advance", EventNext); err != nil {
		return err
	}
	l.index = 1
	l.runExercise()
	return nil
}

// ReturnToMenu abandons the lesson and clears the scene.
func (l *Lesson) ReturnToMenu() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.fire("returnToMenu", EventMenu); err != nil {
		return err
	}
	l.issue()
	l.index = 0
	l.saved = nil
	l.ex = nil
	l.extras = nil
	l.ghosts = nil
	l.intakeOpen = false
	l.exampleFinished = false
	l.host.Renderer.RemoveTokens(allTokens)
	l.host.Panel.SetResult("")
	l.host.Panel.SetMessage("")
	l.host.Input.SetText("")
	l.refresh()
	l.logger.Info("returned to menu")
	return nil
}

// RequestAdHocExample plays a fresh example without losing the exercise in progress.
func (l *Lesson) RequestAdHocExample() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ex == nil {
		return fmt.Errorf("%w: requestAdHocExample without an exercise", ErrIntentRejected)
	}
	if err := l.fire("requestAdHocExample", EventAdHoc); err != nil {
		return err
	}
	l.saved = &Snapshot{
		Index:  l.index,
		Input:  l.host.Input.Text(),
		A:      l.ex.A,
		B:      l.ex.B,
		ColorA: l.ex.ColorA,
		ColorB: l.ex.ColorB,
	}
	tok := l.issue()
	l.intakeOpen = false
	l.clearMistakes()

	ca, cb := pickTwoColors(l.rng)
	a, b := l.nonTrivialPair()
	l.draw(tok, a, b, ca, cb)
	l.showExample()
	l.logger.Info("ad-hoc example",
		zap.Int("index", l.index), zap.Int("a", a), zap.Int("b", b), zap.Uint64("run", tok.ID()))

	l.launch(tok, l.exampleSteps(*l.ex), func() {
		l.host.Panel.SetMessage(MsgAdHocDone)
	})
	return nil
}

// SubmitAnswer evaluates the answer field against the current exercise.
func (l *Lesson) SubmitAnswer() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.fire("submitAnswer", EventSubmit); err != nil {
		return err
	}
	l.intakeOpen = false
	l.refresh()

	raw := l.host.Input.Text()
	if clean := evaluator.Sanitize(raw); clean != raw {
		l.host.Input.SetText(clean)
		raw = clean
	}
	ex := l.ex
	res := evaluator.Evaluate(raw, ex.Total())
	l.logger.Info("answer",
		zap.Int("index", l.index),
		zap.String("raw", raw),
		zap.Stringer("verdict", res.Verdict),
		zap.Int("amount", res.Amount))

	// Invalid input leaves extras and ghosts of the last answer on screen.
	if res.Verdict == evaluator.Invalid {
		l.host.Panel.SetMessage(MsgInvalid)
		l.reopen()
		return nil
	}
	l.clearMistakes()

	tok := l.currentToken()
	switch res.Verdict {
	case evaluator.Correct:
		l.correct(tok)
	case evaluator.Over:
		l.over(tok, res.Amount)
	case evaluator.Under:
		l.under(tok, res.Amount)
	}
	return nil
}

// issue supersedes every running sequence. Callers hold l.mu.
func (l *Lesson) issue() runtoken.Token {
	l.run = l.runs.Issue()
	return l.run
}

// currentToken returns the token the running exercise was drawn under.
func (l *Lesson) currentToken() runtoken.Token {
	return l.run
}

func (l *Lesson) reopen() {
	l.mustFire(EventRetry)
	l.intakeOpen = true
	l.refresh()
}

func (l *Lesson) correct(tok runtoken.Token) {
	l.host.Panel.SetMessage(MsgCorrect)
	l.host.Narrator.CancelOngoing()
	l.celebrate()
	l.mustFire(EventCorrect)
	l.refresh()

	if l.phase() == PhaseComplete {
		l.host.Panel.SetMessage(MsgFinished)
		l.logger.Info("lesson complete")
		l.launch(tok, []narration.Step{narration.Speak(sayCorrect)}, nil)
		return
	}
	l.launch(tok, []narration.Step{
		narration.Speak(sayCorrect),
		narration.Wait(l.cfg.NextDelay),
	}, func() {
		l.mustFire(EventAdvance)
		l.index++
		l.runExercise()
	})
}

func (l *Lesson) over(tok runtoken.Token, amount int) {
	scene := l.host.Renderer.SceneBounds()
	extras := l.engine.PlaceExtras(amount, l.ex.All(), scene, l.obstacles())
	for _, t := range extras {
		l.host.Renderer.RenderToken(t, l.cfg.Placement.Diameter, "")
	}
	l.extras = extras
	msg := overMessage(amount)
	l.host.Panel.SetMessage(msg)
	l.feedback(tok, msg)
}

func (l *Lesson) under(tok runtoken.Token, amount int) {
	pool := placement.IDs(l.ex.All())
	l.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if amount < len(pool) {
		pool = pool[:amount]
	}
	if len(pool) > 0 {
		l.host.Renderer.Mark(pool, narration.MarkGhost, true)
	}
	l.ghosts = pool
	l.host.Panel.SetMessage(underMessage(amount))
	l.feedback(tok, underSpoken(amount))
}

// feedback speaks the deviation, then reopens intake on the same exercise.
func (l *Lesson) feedback(tok runtoken.Token, spoken string) {
	l.host.Narrator.CancelOngoing()
	l.launch(tok, []narration.Step{narration.Speak(spoken)}, l.reopen)
}

func (l *Lesson) celebrate() {
	ids := placement.IDs(l.ex.All())
	if len(ids) == 0 {
		return
	}
	r := l.host.Renderer
	r.Mark(ids, narration.MarkCounting, false)
	r.Mark(ids, narration.MarkHighlight, false)
	r.Mark(ids, narration.MarkGhost, false)
	r.Recolor(ids, celebrationColor(l.rng, l.ex.ColorA, l.ex.ColorB))
}

// clearMistakes removes extras and ghost marks left by the previous answer.
func (l *Lesson) clearMistakes() {
	if len(l.extras) > 0 {
		l.host.Renderer.RemoveTokens(extraTokens)
		l.extras = nil
	}
	if len(l.ghosts) > 0 {
		l.host.Renderer.Mark(l.ghosts, narration.MarkGhost, false)
		l.ghosts = nil
	}
}

// runExercise draws exercise l.index under a fresh token and starts its
// sequence: the worked example at index 0, the spoken question otherwise.
func (l *Lesson) runExercise() {
	l.clearMistakes()
	tok := l.issue()
	l.intakeOpen = false
	l.exampleFinished = false

	ca, cb := pickTwoColors(l.rng)
	var a, b int
	if l.index == 0 {
		a, b = l.nonTrivialPair()
	} else {
		a, b = l.pair()
	}
	l.draw(tok, a, b, ca, cb)
	l.logger.Info("exercise",
		zap.Int("index", l.index),
		zap.Int("a", a),
		zap.Int("b", b),
		zap.String("colorA", ca.Name),
		zap.String("colorB", cb.Name),
		zap.Uint64("run", tok.ID()))

	if l.index == 0 {
		l.showExample()
		l.launch(tok, l.exampleSteps(*l.ex), func() {
			l.exampleFinished = true
			l.host.Panel.SetMessage(MsgExampleDone)
			l.refresh()
		})
		return
	}

	l.showQuestion()
	l.host.Input.SetText("")
	l.launch(tok, l.questionSteps(*l.ex), func() {
		l.intakeOpen = true
		l.refresh()
	})
}

// resumeFromAdHoc redraws the saved exercise and reopens intake without narration.
func (l *Lesson) resumeFromAdHoc() {
	saved := *l.saved
	l.saved = nil
	tok := l.issue()
	l.clearMistakes()

	l.index = saved.Index
	l.draw(tok, saved.A, saved.B, saved.ColorA, saved.ColorB)
	l.showQuestion()
	l.host.Input.SetText(saved.Input)
	l.host.Panel.SetMessage(MsgContinue)
	l.intakeOpen = true
	l.refresh()
	l.logger.Info("resumed lesson", zap.Int("index", l.index), zap.Uint64("run", tok.ID()))
}

func (l *Lesson) pair() (int, int) {
	if l.nextPair != nil {
		return l.nextPair()
	}
	return l.rng.IntN(l.cfg.MaxOperand + 1), l.rng.IntN(l.cfg.MaxOperand + 1)
}

// nonTrivialPair resamples 0+0 a bounded number of times.
func (l *Lesson) nonTrivialPair() (int, int) {
	a, b := l.pair()
	for i := 0; a == 0 && b == 0 && i < l.cfg.ExampleResamples; i++ {
		a, b = l.pair()
	}
	return a, b
}

func (l *Lesson) obstacles() []geometry.Rect {
	return geometry.ObstacleRects(l.host.Renderer.MeasureObstacle, l.cfg.Obstacles)
}

// draw replaces the scene with a fresh exercise: A on the left half, B on the right.
func (l *Lesson) draw(tok runtoken.Token, a, b int, ca, cb Color) {
	r := l.host.Renderer
	r.RemoveTokens(allTokens)
	l.extras = nil
	l.ghosts = nil

	scene := geometry.RectOf(r.SceneBounds())
	left, right := scene.SplitVertical()
	obstacles := l.obstacles()
	nodesA := l.engine.PlaceGroup(a, placement.GroupA, left, obstacles, nil)
	nodesB := l.engine.PlaceGroup(b, placement.GroupB, right, obstacles, nodesA)

	d := l.cfg.Placement.Diameter
	for _, t := range nodesA {
		r.RenderToken(t, d, ca.Hex)
	}
	for _, t := range nodesB {
		r.RenderToken(t, d, cb.Hex)
	}
	r.SetLabelValue(Left, a, ca)
	r.SetLabelValue(Right, b, cb)

	l.ex = &Exercise{
		ID:     uuid.New(),
		A:      a,
		B:      b,
		ColorA: ca,
		ColorB: cb,
		NodesA: nodesA,
		NodesB: nodesB,
		Run:    tok.ID(),
	}
	l.host.Panel.SetOperands(a, b)
	l.host.Panel.SetResult("")
}

func (l *Lesson) showExample() {
	l.host.Input.SetText("")
	l.host.Panel.SetMessage("")
	l.refresh()
}

func (l *Lesson) showQuestion() {
	l.host.Panel.SetMessage("")
	l.refresh()
}

// refresh pushes the label, affordances and input state derived from the
// current state to the host.
func (l *Lesson) refresh() {
	s := l.stateLocked()
	aff := AffordancesFor(s)
	if s.Phase != PhaseIdle {
		l.host.Panel.SetLessonLabel(LessonLabel(s.Index, l.cfg.Length, s.Phase == PhaseExample))
	} else {
		l.host.Panel.SetLessonLabel("")
	}
	l.host.Panel.SetAffordances(aff)
	l.host.Input.SetEnabled(aff.AnswerEnabled)
}

// launch runs steps under tok on a new goroutine. done runs under the lesson
// lock, and only if tok is still current when the steps finish.
func (l *Lesson) launch(tok runtoken.Token, steps []narration.Step, done func()) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if !l.seq.Run(tok, steps) || done == nil {
			return
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		if !l.runs.IsCurrent(tok) {
			l.logger.Debug("completion dropped", zap.Uint64("run", tok.ID()))
			return
		}
		done()
	}()
}

func (l *Lesson) exampleSteps(ex Exercise) []narration.Step {
	idsA := placement.IDs(ex.NodesA)
	idsB := placement.IDs(ex.NodesB)
	all := placement.IDs(ex.All())
	total := ex.Total()
	return []narration.Step{
		narration.Speak(QuantitySentence(Left, ex.A, ex.ColorA)),
		narration.Speak(QuantitySentence(Right, ex.B, ex.ColorB)),
		narration.HighlightSequential(idsA, ex.ColorA.Plural),
		narration.HighlightSequential(idsB, ex.ColorB.Plural),
		narration.Speak(sayThen),
		narration.Pulse(idsA, narration.NumberWord(ex.A)),
		narration.Pulse(idsB, plusWord(ex.B)),
		narration.Pulse(all, isWord(total)),
		narration.Call(func() { l.host.Panel.SetResult(strconv.Itoa(total)) }),
		narration.Recount(all),
	}
}

func (l *Lesson) questionSteps(ex Exercise) []narration.Step {
	idsA := placement.IDs(ex.NodesA)
	idsB := placement.IDs(ex.NodesB)
	return []narration.Step{
		narration.Speak(sayQuestion),
		narration.Pulse(idsA, narration.NumberWord(ex.A)),
		narration.Speak(sayPlus),
		narration.Pulse(idsB, narration.NumberWord(ex.B)),
		narration.PulseFor(idsB, l.cfg.Pulse),
	}
}
