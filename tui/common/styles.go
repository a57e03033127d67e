package common

import "github.com/charmbracelet/lipgloss"

// Palette shared by the CLI output and the progress view.
var (
	AccentColor  = lipgloss.Color("#FF6600")
	MutedColor   = lipgloss.Color("#6E738D")
	ErrorColor   = lipgloss.Color("#ED8796")
	SuccessColor = lipgloss.Color("#A6DA95")
	WarnColor    = lipgloss.Color("#EED49F")
	LinkColor    = lipgloss.Color("#7DC4E4")
)

// Styles are bound to one renderer so color detection follows the stream
// they are written to.
type Styles struct {
	Label   lipgloss.Style
	Value   lipgloss.Style
	Link    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
	Spinner lipgloss.Style
}

// NewStyles builds the styles for r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Label: r.NewStyle().
			Bold(true).
			Foreground(AccentColor),
		Value: r.NewStyle(),
		Link: r.NewStyle().
			Foreground(LinkColor),
		Warning: r.NewStyle().
			Foreground(WarnColor).
			Bold(true),
		Error: r.NewStyle().
			Foreground(ErrorColor).
			Bold(true),
		Success: r.NewStyle().
			Foreground(SuccessColor).
			Bold(true),
		Muted: r.NewStyle().
			Foreground(MutedColor),
		Spinner: r.NewStyle().
			Foreground(AccentColor),
	}
}
