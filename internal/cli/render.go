package cli

import (
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// -------------- rendering helpers --------------

const progressWidth = 28

// listLines builds the `ls` panel: header, progress bar, rows, tip.
func listLines(items []model.Item, group bool) []string {
	t := ui.Current()
	d, p := model.Stats(items)

	var lines []string
	lines = append(lines, ui.Header(d, p))
	lines = append(lines, t.Muted.Render(ui.ProgressBar(d, d+p, progressWidth)))
	lines = append(lines, "")

	if group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `todo add \"Buy milk\"`, toggle with `todo done <id>`"))
	return lines
}

func flatLines(items []model.Item) []string {
	if len(items) == 0 {
		return []string{ui.Current().Muted.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, ui.ItemLine(it.ID, it.Name, it.Complete))
	}
	return out
}

func groupLines(items []model.Item) []string {
	t := ui.Current()
	var pend, done []model.Item
	for _, it := range items {
		if it.Complete {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	section := func(title string, its []model.Item) []string {
		lines := []string{t.Accent.Render(title)}
		if len(its) == 0 {
			return append(lines, t.Muted.Render("(none)"))
		}
		return append(lines, flatLines(its)...)
	}

	var lines []string
	lines = append(lines, section("Pending", pend)...)
	lines = append(lines, "")
	lines = append(lines, section("Done", done)...)
	return lines
}
