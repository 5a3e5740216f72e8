package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/comalice/countlesson/internal/primitives"
)

// trace records entry/exit/transition actions in order.
type trace struct {
	mu    sync.Mutex
	steps []string
}

func (tr *trace) add(s string) primitives.Action {
	return func(primitives.Event) {
		tr.mu.Lock()
		tr.steps = append(tr.steps, s)
		tr.mu.Unlock()
	}
}

func (tr *trace) take() string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	out := strings.Join(tr.steps, ",")
	tr.steps = nil
	return out
}

type recordingPublisher struct {
	mu  sync.Mutex
	got []MachineMetadata
}

func (p *recordingPublisher) Publish(_ context.Context, _ primitives.Event, md MachineMetadata) error {
	p.mu.Lock()
	p.got = append(p.got, md)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func buildChart(t *testing.T, tr *trace, last *bool) primitives.MachineConfig {
	t.Helper()
	b := primitives.NewMachineBuilder("lesson", "idle")
	b.State("idle").
		OnEntry(tr.add("enter idle")).
		OnExit(tr.add("exit idle")).
		Transition("START", "lesson")

	lesson := b.Compound("lesson").WithInitial("example").
		OnEntry(tr.add("enter lesson")).
		OnExit(tr.add("exit lesson")).
		Transition("MENU", "idle")
	lesson.Atomic("example").
		OnEntry(tr.add("enter example")).
		OnExit(tr.add("exit example")).
		Transition("SKIP", "lesson.asking")
	lesson.Atomic("asking").
		OnEntry(tr.add("enter asking")).
		OnExit(tr.add("exit asking")).
		Transition("SUBMIT", "lesson.evaluating", primitives.TransitionConfig{Actions: []primitives.Action{tr.add("submit")}}).
		Transition("REASK", "lesson.asking")
	lesson.Atomic("evaluating").
		OnEntry(tr.add("enter evaluating")).
		OnExit(tr.add("exit evaluating")).
		Transition("CORRECT", "lesson.transition").
		Transition("CORRECT", "lesson.complete", primitives.TransitionConfig{
			Priority:  1,
			GuardName: "last",
			Guard:     func(primitives.Event) bool { return *last },
		})
	lesson.Atomic("transition")
	lesson.Final("complete")

	cfg, err := b.Build()
	require.NoError(t, err)
	return cfg
}

func TestMachine_SendBeforeStart(t *testing.T) {
	var last bool
	m := NewMachine(buildChart(t, &trace{}, &last))
	_, err := m.Send(primitives.NewEvent("START", nil))
	assert.True(t, errors.Is(err, ErrNotStarted))
	assert.False(t, m.Can(primitives.NewEvent("START", nil)))
	assert.Equal(t, "", m.Current())
}

func TestMachine_StartEntersInitialLeaf(t *testing.T) {
	tr := &trace{}
	var last bool
	m := NewMachine(buildChart(t, tr, &last))
	require.NoError(t, m.Start())
	require.NoError(t, m.Start())

	assert.Equal(t, "idle", m.Current())
	assert.Equal(t, "enter idle", tr.take())
}

func TestMachine_StartRejectsInvalidConfig(t *testing.T) {
	m := NewMachine(primitives.MachineConfig{ID: "broken"})
	err := m.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid machine config")
}

func TestMachine_HierarchicalTransitions(t *testing.T) {
	tr := &trace{}
	var last bool
	m := NewMachine(buildChart(t, tr, &last), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, m.Start())
	tr.take()

	steps := []struct {
		event     string
		wantTaken bool
		wantState string
		wantTrace string
	}{
		{"START", true, "lesson.example", "exit idle,enter lesson,enter example"},
		{"SUBMIT", false, "lesson.example", ""},
		{"SKIP", true, "lesson.asking", "exit example,enter asking"},
		{"REASK", true, "lesson.asking", "exit asking,enter asking"},
		{"SUBMIT", true, "lesson.evaluating", "exit asking,submit,enter evaluating"},
		{"CORRECT", true, "lesson.transition", "exit evaluating"},
		{"MENU", true, "idle", "exit lesson,enter idle"},
	}
	for _, s := range steps {
		taken, err := m.Send(primitives.NewEvent(s.event, nil))
		require.NoError(t, err)
		assert.Equal(t, s.wantTaken, taken, s.event)
		assert.Equal(t, s.wantState, m.Current(), s.event)
		assert.Equal(t, s.wantTrace, tr.take(), s.event)
	}
}

func TestMachine_GuardPriority(t *testing.T) {
	var last bool
	m := NewMachine(buildChart(t, &trace{}, &last))
	require.NoError(t, m.Start())

	for _, e := range []string{"START", "SKIP", "SUBMIT"} {
		_, err := m.Send(primitives.NewEvent(e, nil))
		require.NoError(t, err)
	}
	last = true
	taken, err := m.Send(primitives.NewEvent("CORRECT", nil))
	require.NoError(t, err)
	assert.True(t, taken)
	assert.Equal(t, "lesson.complete", m.Current())

	// complete is final; only the inherited MENU leaves it.
	assert.False(t, m.Can(primitives.NewEvent("SUBMIT", nil)))
	assert.True(t, m.Can(primitives.NewEvent("MENU", nil)))
}

func TestMachine_In(t *testing.T) {
	var last bool
	m := NewMachine(buildChart(t, &trace{}, &last))
	require.NoError(t, m.Start())
	_, err := m.Send(primitives.NewEvent("START", nil))
	require.NoError(t, err)

	assert.True(t, m.In("lesson"))
	assert.True(t, m.In("lesson.example"))
	assert.False(t, m.In("lesson.ex"))
	assert.False(t, m.In("idle"))
}

func TestMachine_PublishesTransitions(t *testing.T) {
	var last bool
	pub := &recordingPublisher{}
	m := NewMachine(buildChart(t, &trace{}, &last), WithPublisher(pub))
	require.NoError(t, m.Start())

	_, err := m.Send(primitives.NewEvent("START", nil))
	require.NoError(t, err)
	_, err = m.Send(primitives.NewEvent("NOPE", nil))
	require.NoError(t, err)

	require.Len(t, pub.got, 1)
	assert.Equal(t, "lesson", pub.got[0].MachineID)
	assert.Equal(t, "idle", pub.got[0].From)
	assert.Equal(t, "lesson.example", pub.got[0].To)
	assert.Equal(t, "idle -> lesson.example", pub.got[0].Transition)
}

func TestMachine_VisualizeWithoutVisualizer(t *testing.T) {
	var last bool
	m := NewMachine(buildChart(t, &trace{}, &last))
	assert.Contains(t, m.Visualize(), "No visualizer configured")
}

func TestMachine_ConcurrentSend(t *testing.T) {
	var last bool
	m := NewMachine(buildChart(t, &trace{}, &last))
	require.NoError(t, m.Start())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = m.Send(primitives.NewEvent("START", nil))
				_, _ = m.Send(primitives.NewEvent("MENU", nil))
			}
		}()
	}
	wg.Wait()

	state := m.Current()
	assert.True(t, state == "idle" || state == "lesson.example", state)
}
