package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"stationboard/pkg/board"
)

// Fixed column widths so the board does not jump around between refreshes.
var columns = []struct {
	title string
	width int
}{
	{"Time", 5},
	{"Destination", 30},
	{"Plat", 4},
	{"Expt", 9},
	{"Cars", 4},
}

const (
	noServicesText = "No services available"
	exitHint       = "Esc to exit"
)

// pad fits s into exactly w cells, truncating with an ellipsis.
func pad(s string, w int) string {
	s = runewidth.Truncate(s, w, "…")
	if sw := runewidth.StringWidth(s); sw < w {
		s += strings.Repeat(" ", w-sw)
	}
	return s
}

func boardWidth(padX int) int {
	total := 0
	for _, c := range columns {
		total += c.width
	}
	return total + padX*(len(columns)-1)
}

func row(cells []string, padX int) string {
	out := make([]string, len(columns))
	for i, c := range columns {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		out[i] = pad(cell, c.width)
	}
	return strings.Join(out, strings.Repeat(" ", padX))
}

// RenderBoard draws a full board for state. now drives the clock.
func RenderBoard(s board.State, st Styles, now time.Time) string {
	width := boardWidth(st.PadX)

	var b strings.Builder

	clock := now.Format("15:04:05")
	title := runewidth.Truncate(s.Title(), width-len(clock)-1, "…")
	gap := width - runewidth.StringWidth(title) - len(clock)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(st.Header.Render(title + strings.Repeat(" ", gap)))
	b.WriteString(st.Clock.Render(clock))
	b.WriteString("\n")

	titles := make([]string, len(columns))
	for i, c := range columns {
		titles[i] = c.title
	}
	b.WriteString(st.Column.Render(row(titles, st.PadX)))
	b.WriteString("\n")

	switch {
	case s.Failed():
		// Faults can be long; wrap rather than cut off the useful tail
		b.WriteString(st.Error.Width(width).Render("Web service error: " + s.Err.Error()))
		b.WriteString("\n")
	case s.UpdatedAt.IsZero():
		b.WriteString(st.Item.Render(pad("Fetching departures...", width)))
		b.WriteString("\n")
	case len(s.Departures) == 0:
		b.WriteString(st.Item.Render(pad(noServicesText, width)))
		b.WriteString("\n")
	default:
		for _, d := range s.Departures {
			b.WriteString(st.Item.Render(row(departureCells(d), st.PadX)))
			b.WriteString("\n")
			if reason := d.Reason(); reason != "" {
				indent := columns[0].width + st.PadX
				b.WriteString(st.Reason.Render(strings.Repeat(" ", indent) + pad(reason, width-indent)))
				b.WriteString("\n")
			}
		}
	}

	if !s.Failed() {
		for _, msg := range s.Messages {
			b.WriteString(st.Reason.Width(width).Render(msg))
			b.WriteString("\n")
		}
	}

	status := statusText(s)
	statusWidth := width - len(exitHint) - 1
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		st.Status.Width(statusWidth).Render(status),
		" ",
		st.Status.Render(exitHint),
	))

	return b.String()
}

func departureCells(d board.Departure) []string {
	cars := ""
	if d.Cars > 0 {
		cars = strconv.Itoa(d.Cars)
	}
	return []string{d.Scheduled, d.Destination, d.Platform, d.Status, cars}
}

func statusText(s board.State) string {
	switch {
	case s.Failed():
		return fmt.Sprintf("Web service error: %v", s.Err)
	case s.UpdatedAt.IsZero():
		return "Loading..."
	default:
		return fmt.Sprintf("OK (updated %s)", s.UpdatedAt.Format("15:04:05"))
	}
}
