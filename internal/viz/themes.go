package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the viewer sidebar. Frames are always drawn in their own
// colours.
type Theme struct {
	Name    string
	Header  lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Playing lipgloss.Color
	Paused  lipgloss.Color
	Graph   lipgloss.Color
}

var Themes = []Theme{
	{
		Name:    "cyberpunk",
		Header:  lipgloss.Color("#00ffff"),
		Accent:  lipgloss.Color("#ff00ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666666"),
		Playing: lipgloss.Color("#00ff88"),
		Paused:  lipgloss.Color("#ffaa00"),
		Graph:   lipgloss.Color("#ffff00"),
	},
	{
		Name:    "retro",
		Header:  lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Playing: lipgloss.Color("#88ff88"),
		Paused:  lipgloss.Color("#ffff00"),
		Graph:   lipgloss.Color("#00cc00"),
	},
	{
		Name:    "minimal",
		Header:  lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Playing: lipgloss.Color("#00ff00"),
		Paused:  lipgloss.Color("#ffaa00"),
		Graph:   lipgloss.Color("#cccccc"),
	},
	{
		Name:    "ocean",
		Header:  lipgloss.Color("#00a8cc"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Playing: lipgloss.Color("#00ff88"),
		Paused:  lipgloss.Color("#ffcc00"),
		Graph:   lipgloss.Color("#0077be"),
	},
	{
		Name:    "sunset",
		Header:  lipgloss.Color("#feca57"),
		Accent:  lipgloss.Color("#ff9ff3"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Playing: lipgloss.Color("#5fd068"),
		Paused:  lipgloss.Color("#ffc048"),
		Graph:   lipgloss.Color("#ff6b6b"),
	},
}

// ThemeIndex returns the position of the named theme, or 0.
func ThemeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
