package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette, lime accent on grays.
const (
	ColorLime     = "154"
	ColorLimeDim  = "106"
	ColorWhite    = "255"
	ColorGray     = "245"
	ColorDarkGray = "238"
	ColorYellow   = "220"
)

// Styles holds the styles used by the table renderer.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Fastest lipgloss.Style
	Warning lipgloss.Style
	Border  lipgloss.Style
	Winner  lipgloss.Style
}

// NewRenderer returns a lipgloss renderer for w with colour forced on or off,
// independent of what lipgloss detects for the writer.
func NewRenderer(w io.Writer, color bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// DefaultStyles returns the lime-accented styles bound to r.
func DefaultStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWhite)),
		Label:   r.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)).Padding(0, 1),
		Cell:    r.NewStyle().Padding(0, 1),
		Fastest: r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)).Padding(0, 1),
		Warning: r.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Border:  r.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Winner:  r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLimeDim)),
	}
}
