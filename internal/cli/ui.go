package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/linkgraph/pkg/graph"
)

// =============================================================================
// Palette
// =============================================================================

// Colors are named by role; the animation canvas shares them.
var (
	colorAccent = lipgloss.Color("37")
	colorOK     = lipgloss.Color("78")
	colorWarn   = lipgloss.Color("214")
	colorBad    = lipgloss.Color("203")
	colorLink   = lipgloss.Color("111")
	colorText   = lipgloss.Color("254")
	colorMuted  = lipgloss.Color("246")
	colorFaint  = lipgloss.Color("239")
)

var (
	StyleDim     = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue   = lipgloss.NewStyle().Foreground(colorText)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)
)

// =============================================================================
// Status lines
// =============================================================================

// stdout receives status lines. Logs go to the logger's writer instead.
var stdout io.Writer = os.Stdout

type statusKind int

const (
	statusOK statusKind = iota
	statusFailed
	statusWarn
	statusNote
)

var statusMarks = [...]struct {
	mark  string
	style lipgloss.Style
}{
	statusOK:     {"✓", lipgloss.NewStyle().Foreground(colorOK)},
	statusFailed: {"✗", lipgloss.NewStyle().Foreground(colorBad)},
	statusWarn:   {"!", lipgloss.NewStyle().Foreground(colorWarn)},
	statusNote:   {"›", lipgloss.NewStyle().Foreground(colorMuted)},
}

func status(kind statusKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if kind == statusWarn {
		msg = StyleWarning.Render(msg)
	}
	m := statusMarks[kind]
	fmt.Fprintln(stdout, m.style.Render(m.mark)+" "+msg)
}

func printSuccess(format string, args ...any) { status(statusOK, format, args...) }
func printError(format string, args ...any)   { status(statusFailed, format, args...) }
func printWarning(format string, args ...any) { status(statusWarn, format, args...) }
func printInfo(format string, args ...any)    { status(statusNote, format, args...) }

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile announces a written output file.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() { fmt.Fprintln(stdout) }

// =============================================================================
// Stats Display
// =============================================================================

// printGraphStats prints build statistics on a single line.
func printGraphStats(loaded, total, edges, domains int) {
	fmt.Fprintln(stdout, statsLine(
		fmt.Sprintf("%d of %d documents", loaded, total),
		plural(edges, "link"),
		plural(domains, "domain"),
	))
}

// printLayoutStats prints layout statistics on a single line.
func printLayoutStats(nodes, edges int, algorithm string, cached bool) {
	source := lipgloss.NewStyle().Foreground(colorMuted).Render("fresh")
	if cached {
		source = lipgloss.NewStyle().Foreground(colorOK).Render("cached")
	}
	fmt.Fprintln(stdout, statsLine(plural(nodes, "node"), plural(edges, "edge"), algorithm)+StyleDim.Render(" · ")+source)
}

func statsLine(parts ...string) string {
	rendered := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			rendered = append(rendered, StyleDim.Render(p))
		}
	}
	return "  " + strings.Join(rendered, StyleDim.Render(" · "))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// brokenLinksTable lists documents with links to missing documents, or ""
// when there are none.
func brokenLinksTable(nodes []graph.Node) string {
	var rows [][]string
	for _, n := range nodes {
		if n.Doc == nil {
			continue
		}
		for _, target := range n.Doc.BrokenLinks {
			rows = append(rows, []string{n.Doc.Path, target})
		}
	}
	if len(rows) == 0 {
		return ""
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("Document", "Missing target").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 1:
				return cellStyle.Foreground(colorBad)
			}
			return cellStyle
		}).
		Render()
}
