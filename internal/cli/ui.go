package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/inarow/pkg/game"
	"github.com/matzehuels/inarow/pkg/state"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success, green chips
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors, red chips
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	chipStyles = map[game.Chip]lipgloss.Style{
		game.Empty: StyleDim,
		game.Green: lipgloss.NewStyle().Bold(true).Foreground(colorGreen),
		game.Red:   lipgloss.NewStyle().Bold(true).Foreground(colorRed),
	}
	winStyles = map[game.WinState]lipgloss.Style{
		game.Draw:     lipgloss.NewStyle().Foreground(colorGray),
		game.GreenWin: chipStyles[game.Green],
		game.RedWin:   chipStyles[game.Red],
	}
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints build statistics on a single line.
func printStats(w io.Writer, parts []string, cached bool) {
	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	if len(parts) > 0 {
		line += StyleDim.Render(" · ")
	}
	fmt.Fprintln(w, line+statusStyle.Render(status))
}

// =============================================================================
// Positions
// =============================================================================

// renderBoard colors each cell of a position's text form.
func renderBoard(board string) string {
	lines := strings.Split(board, "\n")
	for i, line := range lines {
		var b strings.Builder
		for _, r := range line {
			chip, err := game.ParseChip(string(r))
			if err != nil {
				b.WriteRune(r)
				continue
			}
			b.WriteString(chipStyles[chip].Render(string(r)))
			b.WriteByte(' ')
		}
		lines[i] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(lines, "\n")
}

// printBoard prints a position's grid indented under a heading.
func printBoard(w io.Writer, board string) {
	for _, line := range strings.Split(renderBoard(board), "\n") {
		fmt.Fprintln(w, "  "+line)
	}
}

// formatHistogram renders counts with their share of the total, e.g.
// "green 6 (100.0%) · red 0 (0.0%) · draw 0 (0.0%)".
func formatHistogram(h state.Histogram) string {
	total := h.Total()
	order := []game.WinState{game.GreenWin, game.RedWin, game.Draw}
	parts := make([]string, 0, len(order))
	for _, ws := range order {
		pct := 0.0
		if total > 0 {
			pct = 100 * float64(h[ws]) / float64(total)
		}
		parts = append(parts, winStyles[ws].Render(fmt.Sprintf("%s %d", ws, h[ws]))+
			StyleDim.Render(fmt.Sprintf(" (%.1f%%)", pct)))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}
