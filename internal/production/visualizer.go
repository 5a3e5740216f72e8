// Package production provides integrations around a running chart: transition
// publishing and chart export.
package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/comalice/countlesson/internal/primitives"
)

// DefaultVisualizer exports charts as Graphviz DOT, JSON and YAML.
type DefaultVisualizer struct{}

// Edge represents a transition edge between two state paths.
type Edge struct {
	From  string
	To    string
	Label string
}

// ExportDOT generates Graphviz DOT source for the chart. Nodes are keyed by
// full state path; states on the current paths are filled.
func (v *DefaultVisualizer) ExportDOT(config primitives.MachineConfig, current []string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Statechart {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, fontsize=10, style=rounded];\n")
	buf.WriteString("  edge [fontsize=9];\n")

	active := activePaths(current)
	for _, id := range config.TopLevelIDs() {
		renderState(&buf, "", config.States[id], active, "  ")
	}
	for _, e := range CollectEdges(config) {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the machine config to JSON. Guards and actions are omitted.
func (v *DefaultVisualizer) ExportJSON(config primitives.MachineConfig) ([]byte, error) {
	return json.MarshalIndent(config, "", "  ")
}

// ExportYAML serializes the machine config to YAML.
func (v *DefaultVisualizer) ExportYAML(config primitives.MachineConfig) ([]byte, error) {
	out, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal chart: %w", err)
	}
	return out, nil
}

// activePaths returns every ancestor path of the current leaves.
func activePaths(current []string) map[string]bool {
	active := make(map[string]bool)
	for _, leaf := range current {
		for i := range leaf {
			if leaf[i] == '.' {
				active[leaf[:i]] = true
			}
		}
		if leaf != "" {
			active[leaf] = true
		}
	}
	return active
}

// CollectEdges lists every transition whose target resolves, in Walk order.
func CollectEdges(config primitives.MachineConfig) []Edge {
	var edges []Edge
	config.Walk(func(path string, s *primitives.StateConfig) {
		for _, event := range sortedEvents(s) {
			for _, trans := range s.On[event] {
				if _, err := config.FindState(trans.Target); err != nil {
					continue
				}
				edges = append(edges, Edge{From: path, To: trans.Target, Label: trans.Label()})
			}
		}
	})
	return edges
}

func sortedEvents(s *primitives.StateConfig) []string {
	events := make([]string, 0, len(s.On))
	for e := range s.On {
		events = append(events, e)
	}
	sort.Strings(events)
	return events
}

// renderState writes a node, or a cluster for compound states.
func renderState(buf *bytes.Buffer, prefix string, state *primitives.StateConfig, active map[string]bool, indent string) {
	path := state.ID
	if prefix != "" {
		path = prefix + "." + state.ID
	}

	if len(state.Children) == 0 {
		attrs := ""
		if state.Type == primitives.Final {
			attrs += " shape=doublecircle"
		}
		if active[path] {
			attrs += " style=filled fillcolor=lightgreen"
		}
		fmt.Fprintf(buf, "%s%q [label=%q%s];\n", indent, path, state.ID, attrs)
		return
	}

	fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+path)
	label := fmt.Sprintf("%s (%s)", state.ID, state.Type)
	if active[path] {
		fmt.Fprintf(buf, "%s  label=%q; style=filled; fillcolor=orange;\n", indent, label)
	} else {
		fmt.Fprintf(buf, "%s  label=%q;\n", indent, label)
	}
	fmt.Fprintf(buf, "%s  %q [label=%q shape=ellipse];\n", indent, path, state.ID)
	for _, child := range state.Children {
		renderState(buf, path, child, active, indent+"  ")
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}
