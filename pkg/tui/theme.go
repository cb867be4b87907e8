package tui

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"stationboard/pkg/config"
)

// namedColours maps the colour names board files use onto terminal colours.
var namedColours = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"cyan":    "6",
	"white":   "7",
	"grey":    "8",
	"gray":    "8",
	"orange":  "#FFA500",
	"amber":   "#FFBF00",
}

// Colour resolves a colour name, "#rrggbb" or ANSI number.
func Colour(s string) lipgloss.Color {
	s = strings.TrimSpace(s)
	if c, ok := namedColours[strings.ToLower(s)]; ok {
		return lipgloss.Color(c)
	}
	return lipgloss.Color(s)
}

// Styles holds everything needed to draw a board.
type Styles struct {
	Header lipgloss.Style
	Clock  lipgloss.Style
	Column lipgloss.Style
	Item   lipgloss.Style
	Reason lipgloss.Style
	Error  lipgloss.Style
	Status lipgloss.Style

	PadX int
}

// NewStyles builds the board styles from the display settings.
func NewStyles(display config.DisplayConfig, fonts config.FontConfig) Styles {
	bg := Colour(display.BgColour)
	head := Colour(display.HeadFgColour)
	item := Colour(display.ItemFgColour)

	st := Styles{
		Header: lipgloss.NewStyle().Foreground(head).Background(bg),
		Clock:  lipgloss.NewStyle().Foreground(item).Background(bg),
		Column: lipgloss.NewStyle().Foreground(head).Background(bg),
		Item:   lipgloss.NewStyle().Foreground(item).Background(bg),
		Reason: lipgloss.NewStyle().Foreground(item).Background(bg).Italic(true),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Background(bg).Bold(true),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#CCCCCC")),
		PadX:   display.PadX,
	}

	if fonts.Header > fonts.Normal {
		st.Header = st.Header.Bold(true)
	}
	if fonts.Time > fonts.Normal {
		st.Clock = st.Clock.Bold(true)
	}

	return st
}

// GetCustomTheme returns a new huh.Theme instantiated with the provided lipgloss color string.
func GetCustomTheme(baseColor string) *huh.Theme {
	t := huh.ThemeCharm()
	p := Colour(baseColor)

	t.Focused.Title = t.Focused.Title.Foreground(p).Bold(true)
	t.Focused.Base = t.Focused.Base.Border(lipgloss.RoundedBorder()).BorderForeground(p).Padding(0, 1)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(p)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(p)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(lipgloss.Color("0")).Background(p)

	// Softer borders for unfocused elements
	t.Blurred.Base = t.Blurred.Base.Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)

	return t
}
