package primitives

import (
	"strings"
	"testing"
)

func lessonChart(t *testing.T) MachineConfig {
	t.Helper()
	b := NewMachineBuilder("lesson", "idle")
	b.State("idle").Transition("START", "lesson")
	b.Compound("lesson").WithInitial("example").
		Transition("MENU", "idle").
		Atomic("example").Transition("SKIP", "lesson.asking").
		Up().
		Atomic("asking").Transition("SUBMIT", "lesson.evaluating").
		Up().
		Atomic("evaluating").Transition("RETRY", "lesson.asking").
		Up().
		Final("complete")
	cfg, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return cfg
}

func TestMachineConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      func() *MachineConfig
		wantErr     bool
		errContains string
	}{
		{
			name: "minimal valid",
			config: func() *MachineConfig {
				return &MachineConfig{ID: "m", Initial: "idle", States: map[string]*StateConfig{
					"idle": NewStateConfig("idle", Atomic),
				}}
			},
		},
		{
			name: "missing machine ID",
			config: func() *MachineConfig {
				return &MachineConfig{Initial: "idle", States: map[string]*StateConfig{
					"idle": NewStateConfig("idle", Atomic),
				}}
			},
			wantErr:     true,
			errContains: "machine ID",
		},
		{
			name: "missing initial",
			config: func() *MachineConfig {
				return &MachineConfig{ID: "m", States: map[string]*StateConfig{
					"idle": NewStateConfig("idle", Atomic),
				}}
			},
			wantErr:     true,
			errContains: "initial state ID",
		},
		{
			name: "initial not found",
			config: func() *MachineConfig {
				return &MachineConfig{ID: "m", Initial: "missing", States: map[string]*StateConfig{
					"idle": NewStateConfig("idle", Atomic),
				}}
			},
			wantErr:     true,
			errContains: "not found",
		},
		{
			name:        "empty states",
			config:      func() *MachineConfig { return &MachineConfig{ID: "m", Initial: "idle"} },
			wantErr:     true,
			errContains: "cannot be empty",
		},
		{
			name: "key mismatch",
			config: func() *MachineConfig {
				return &MachineConfig{ID: "m", Initial: "idle", States: map[string]*StateConfig{
					"idle": NewStateConfig("other", Atomic),
				}}
			},
			wantErr:     true,
			errContains: "does not match",
		},
		{
			name: "unknown nested target",
			config: func() *MachineConfig {
				return &MachineConfig{ID: "m", Initial: "idle", States: map[string]*StateConfig{
					"idle": NewStateConfig("idle", Atomic).Transition("START", "lesson.asking"),
				}}
			},
			wantErr:     true,
			errContains: "invalid transition target",
		},
		{
			name: "orphaned state",
			config: func() *MachineConfig {
				return &MachineConfig{ID: "m", Initial: "idle", States: map[string]*StateConfig{
					"idle":  NewStateConfig("idle", Atomic),
					"alone": NewStateConfig("alone", Atomic),
				}}
			},
			wantErr:     true,
			errContains: "orphaned state \"alone\"",
		},
		{
			name: "reachable through nested transition",
			config: func() *MachineConfig {
				lesson := NewStateConfig("lesson", Compound).WithInitial("asking")
				lesson.State("asking").Transition("MENU", "menu")
				return &MachineConfig{ID: "m", Initial: "lesson", States: map[string]*StateConfig{
					"lesson": lesson,
					"menu":   NewStateConfig("menu", Atomic),
				}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config().Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q does not contain %q", err, tt.errContains)
			}
		})
	}
}

func TestMachineConfigFindState(t *testing.T) {
	cfg := lessonChart(t)

	s, err := cfg.FindState("lesson.asking")
	if err != nil || s.ID != "asking" {
		t.Fatalf("FindState(lesson.asking) = %v, %v", s, err)
	}
	if _, err := cfg.FindState("lesson.missing"); err == nil || !strings.Contains(err.Error(), "child \"missing\"") {
		t.Errorf("expected missing child error, got %v", err)
	}
	if _, err := cfg.FindState("nowhere"); err == nil {
		t.Error("expected error for unknown top-level state")
	}
	if _, err := cfg.FindState(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestMachineConfigWalkOrder(t *testing.T) {
	cfg := lessonChart(t)

	var paths []string
	cfg.Walk(func(path string, _ *StateConfig) { paths = append(paths, path) })

	want := "idle,lesson,lesson.example,lesson.asking,lesson.evaluating,lesson.complete"
	if got := strings.Join(paths, ","); got != want {
		t.Errorf("Walk order = %s want %s", got, want)
	}
}

func TestMachineBuilderBuildReturnsError(t *testing.T) {
	b := NewMachineBuilder("broken", "idle")
	b.State("idle").Transition("START", "nowhere")
	if _, err := b.Build(); err == nil {
		t.Fatal("expected Build to fail on unknown target")
	}
}

func TestMachineBuilderNesting(t *testing.T) {
	cfg := lessonChart(t)

	lesson := cfg.States["lesson"]
	if lesson.Type != Compound || lesson.Initial != "example" {
		t.Fatalf("lesson = %+v", lesson)
	}
	if len(lesson.Children) != 4 {
		t.Fatalf("lesson has %d children want 4", len(lesson.Children))
	}
	if lesson.Child("complete").Type != Final {
		t.Error("complete should be final")
	}
	if len(lesson.On["MENU"]) != 1 {
		t.Error("MENU should be declared once on lesson")
	}
	if _, ok := cfg.States["asking"]; ok {
		t.Error("nested states must not appear at the top level")
	}
}
