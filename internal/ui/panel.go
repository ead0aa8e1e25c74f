package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ShortIDLen is how many id characters lists show.
const ShortIDLen = 8

const maxNameWidth = 80

// ShortID trims id to ShortIDLen runes.
func ShortID(id string) string {
	r := []rune(id)
	if len(r) > ShortIDLen {
		return string(r[:ShortIDLen])
	}
	return id
}

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Header is the one-line summary shown above every list.
func Header(done, pending int) string {
	t := Current()
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), done+pending,
	)
}

// ItemLine renders one row: checkbox, short id, name.
func ItemLine(id, name string, complete bool) string {
	t := Current()
	box := t.Muted.Render(t.BoxUnchecked)
	if complete {
		box = t.Success.Render(t.BoxChecked)
	}
	if len([]rune(name)) > maxNameWidth {
		name = string([]rune(name)[:maxNameWidth-3]) + "..."
	}
	if complete {
		name = t.Done.Render(name)
	}
	return fmt.Sprintf("%s %s %s", box, t.Muted.Render(ShortID(id)), name)
}

// PanelString frames lines using the current theme.
func PanelString(lines []string) string {
	t := Current()
	return framed(t).Render(strings.Join(lines, "\n"))
}

// Panel writes a framed box to w.
func Panel(w io.Writer, lines []string) {
	fmt.Fprintln(w, PanelString(lines))
}

func framed(t Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
}

func OK(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Success.Render(t.SymDone+" "+msg))
}

func Fail(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Error.Render("✖ "+msg))
}

// Note prints a muted informational line.
func Note(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Muted.Render(msg))
}
