package core

import (
	"strings"

	"github.com/comalice/countlesson/internal/primitives"
)

// ancestors returns every path from the root down to leafPath, inclusive.
func ancestors(leafPath string) []string {
	if leafPath == "" {
		return nil
	}
	segments := strings.Split(leafPath, ".")
	out := make([]string, len(segments))
	for i := range segments {
		out[i] = strings.Join(segments[:i+1], ".")
	}
	return out
}

// parentPath returns the path one level up, or "" at the top.
func parentPath(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[:i]
	}
	return ""
}

// isDescendant reports whether path lies strictly below ancestor.
func isDescendant(path, ancestor string) bool {
	if ancestor == "" {
		return path != ""
	}
	return strings.HasPrefix(path, ancestor+".")
}

// computeLCCA returns the longest common ancestor path of two paths.
func computeLCCA(sourcePath, targetPath string) string {
	source := strings.Split(sourcePath, ".")
	target := strings.Split(targetPath, ".")

	n := 0
	for n < len(source) && n < len(target) && source[n] == target[n] {
		n++
	}
	return strings.Join(source[:n], ".")
}

// transitionDomain is the innermost state that is neither exited nor entered.
// Transitions are external, so a source or target that is itself the common
// ancestor is exited and re-entered.
func transitionDomain(sourcePath, targetPath string) string {
	lcca := computeLCCA(sourcePath, targetPath)
	if lcca == sourcePath || lcca == targetPath {
		return parentPath(lcca)
	}
	return lcca
}

// exitStates lists active states below domain, innermost first.
func exitStates(currentLeaf, domain string) []string {
	chain := ancestors(currentLeaf)
	var out []string
	for i := len(chain) - 1; i >= 0; i-- {
		if isDescendant(chain[i], domain) {
			out = append(out, chain[i])
		}
	}
	return out
}

// entryStates lists states below domain down to targetLeaf, outermost first.
func entryStates(domain, targetLeaf string) []string {
	var out []string
	for _, p := range ancestors(targetLeaf) {
		if isDescendant(p, domain) {
			out = append(out, p)
		}
	}
	return out
}

// resolveInitialLeaf follows Initial children down to an atomic or final state.
func resolveInitialLeaf(states map[string]*primitives.StateConfig, path string) string {
	state, ok := states[path]
	if !ok || state.Type != primitives.Compound || state.Initial == "" {
		return path
	}
	return resolveInitialLeaf(states, path+"."+state.Initial)
}
