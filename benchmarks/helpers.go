// Package benchmarks measures the hot paths of a lesson: chart transitions,
// token placement and answer evaluation.
package benchmarks

import (
	"fmt"

	"github.com/comalice/countlesson/internal/geometry"
	"github.com/comalice/countlesson/internal/lesson"
	"github.com/comalice/countlesson/internal/primitives"
)

// GenFlatConfig creates a flat machine with n atomic states cycling via "tick" events.
func GenFlatConfig(n int) primitives.MachineConfig {
	if n < 1 {
		n = 1
	}
	config := primitives.MachineConfig{
		ID:      fmt.Sprintf("flat_%d", n),
		Initial: "s0",
		States:  make(map[string]*primitives.StateConfig, n),
	}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("s%d", i)
		config.States[id] = primitives.NewStateConfig(id, primitives.Atomic).
			Transition("tick", fmt.Sprintf("s%d", (i+1)%n))
	}
	return config
}

// GenDeepConfig creates a chain of depth nested compound states whose two
// innermost leaves swap on "tick". Every transition exits and enters one level.
func GenDeepConfig(depth int) primitives.MachineConfig {
	if depth < 1 {
		depth = 1
	}
	root := primitives.NewStateConfig("d0", primitives.Compound)
	parent, path := root, "d0"
	for i := 1; i < depth; i++ {
		id := fmt.Sprintf("d%d", i)
		parent.WithInitial(id)
		parent = parent.State(id, primitives.Compound)
		path += "." + id
	}
	parent.WithInitial("a")
	parent.State("a").Transition("tick", path+".b")
	parent.State("b").Transition("tick", path+".a")

	return primitives.MachineConfig{
		ID:      fmt.Sprintf("deep_%d", depth),
		Initial: "d0",
		States:  map[string]*primitives.StateConfig{"d0": root},
	}
}

// LessonChart returns the lesson chart with every guard open.
func LessonChart() (primitives.MachineConfig, error) {
	open := func() bool { return true }
	return lesson.NewChart(lesson.Guards{
		FirstExample:    open,
		ExampleFinished: open,
		AdHoc:           open,
		IntakeOpen:      open,
		LastExercise:    func() bool { return false },
	})
}

// SceneObstacles mirrors the plus sign and the two corner labels of a 720x432 scene.
func SceneObstacles() []geometry.Rect {
	return []geometry.Rect{
		geometry.Rect{X: 336, Y: 192, W: 48, H: 48}.Inflate(16),
		geometry.Rect{X: 0, Y: 0, W: 96, H: 48}.Inflate(8),
		geometry.Rect{X: 624, Y: 0, W: 96, H: 48}.Inflate(8),
	}
}
