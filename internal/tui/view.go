package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/comalice/countlesson/internal/narration"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6"))
	boardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6b7280"))
	operandStyle  = lipgloss.NewStyle().Bold(true)
	resultStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22c55e"))
	subtitleStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#f59e0b"))
	messageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5e7eb"))
	plusStyle     = lipgloss.NewStyle().Bold(true)
	extraStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	ghostStyle    = lipgloss.NewStyle().Faint(true)
)

// Glyphs for token states.
const (
	glyphToken     = "●"
	glyphExtra     = "○"
	glyphGhost     = "◌"
	glyphHighlight = "◉"
)

// View implements tea.Model.
func (m Model) View() string {
	s := m.snap
	var b strings.Builder

	title := "Sumas con fichas"
	if s.LessonLabel != "" {
		title = s.LessonLabel
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if s.Affordances.StartVisible {
		b.WriteString("\nPulsa espacio para empezar.\n\n")
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
		return b.String()
	}

	b.WriteString(boardStyle.Render(renderBoard(s)))
	b.WriteString("\n")
	b.WriteString(renderEquation(s))
	b.WriteString("\n")
	if s.Subtitle != "" {
		b.WriteString(subtitleStyle.Render("« " + s.Subtitle + " »"))
	}
	b.WriteString("\n")
	if s.Message != "" {
		b.WriteString(messageStyle.Render(s.Message))
	}
	b.WriteString("\n")
	if s.Affordances.AnswerVisible {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func renderEquation(s Snapshot) string {
	if !s.HasOperands {
		return ""
	}
	eq := operandStyle.Render(fmt.Sprintf("%d + %d =", s.A, s.B))
	if s.Result == "" {
		return eq + " ?"
	}
	return eq + " " + resultStyle.Render(s.Result)
}

// renderBoard draws the token grid with the count labels in the top corners
// and the plus sign in the middle.
func renderBoard(s Snapshot) string {
	grid := make([][]string, Rows)
	for r := range grid {
		grid[r] = make([]string, Cols)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	plus := obstacles["plus"].Center()
	put(grid, int(plus.X)/CellWidth, int(plus.Y)/CellHeight, plusStyle.Render("+"))

	for _, t := range s.Tokens {
		col := int(t.Token.Center.X) / CellWidth
		row := int(t.Token.Center.Y) / CellHeight
		put(grid, col, row, tokenGlyph(t))
	}

	if s.Left.Set {
		putText(grid, 1, 0, lipgloss.NewStyle().Foreground(lipgloss.Color(s.Left.Color.Hex)),
			fmt.Sprintf("%d %s", s.Left.Value, s.Left.Color.Plural))
	}
	if s.Right.Set {
		text := fmt.Sprintf("%d %s", s.Right.Value, s.Right.Color.Plural)
		putText(grid, Cols-1-len([]rune(text)), 0, lipgloss.NewStyle().Foreground(lipgloss.Color(s.Right.Color.Hex)), text)
	}

	lines := make([]string, Rows)
	for r, row := range grid {
		lines[r] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

func tokenGlyph(t DrawnToken) string {
	switch {
	case t.Marks[narration.MarkGhost]:
		return ghostStyle.Foreground(lipgloss.Color(t.Hex)).Render(glyphGhost)
	case t.Hex == "":
		return extraStyle.Render(glyphExtra)
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Hex))
	glyph := glyphToken
	if t.Marks[narration.MarkHighlight] {
		glyph = glyphHighlight
		style = style.Bold(true).Underline(true)
	}
	if t.Marks[narration.MarkCounting] {
		style = style.Reverse(true)
	}
	return style.Render(glyph)
}

func put(grid [][]string, col, row int, cell string) {
	if row < 0 || row >= len(grid) || col < 0 || col >= len(grid[row]) {
		return
	}
	grid[row][col] = cell
}

func putText(grid [][]string, col, row int, style lipgloss.Style, text string) {
	for i, r := range []rune(text) {
		put(grid, col+i, row, style.Render(string(r)))
	}
}
