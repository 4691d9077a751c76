package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/i474232898/frost-dashboard/internal/frost"
)

var toneColors = map[frost.Tone]lipgloss.Color{
	frost.ToneAlert:   lipgloss.Color("#ef4444"),
	frost.ToneSuccess: lipgloss.Color("#22c55e"),
	frost.ToneNeutral: lipgloss.Color("#eab308"),
	frost.ToneLoading: lipgloss.Color("#3b82f6"),
	frost.ToneFailure: lipgloss.Color("#6b7280"),
	frost.ToneIdle:    lipgloss.Color("#d1d5db"),
}

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa")).
			Width(12)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	headerStyle = lipgloss.NewStyle().Bold(true)
)

// Terminal renders states for a terminal.
type Terminal struct {
	// Plain disables colours.
	Plain bool
}

// Render returns the text block for st.
func (t Terminal) Render(st frost.UIState) string {
	var b strings.Builder

	status := st.StatusText
	if !t.Plain {
		status = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("#ffffff")).
			Background(toneColors[st.Tone]).
			Render(st.StatusText)
	}
	b.WriteString(status)
	b.WriteString("\n")
	if st.Summary != "" {
		b.WriteString(st.Summary)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, f := range []struct{ label, value string }{
		{"Ubicación", st.Location},
		{"Estación", st.Station},
		{"Fecha", st.Date},
		{"Intensidad", st.Intensity},
		{"Duración", st.Duration},
		{"Probabilidad", st.Probability},
		{"Temp. mínima", st.Temperature},
	} {
		if t.Plain {
			fmt.Fprintf(&b, "%-12s", f.label)
		} else {
			b.WriteString(labelStyle.Render(f.label))
		}
		b.WriteString(" ")
		b.WriteString(f.value)
		b.WriteString("\n")
	}

	if len(st.Rows) > 0 {
		b.WriteString("\n")
		b.WriteString(t.style(headerStyle, fmt.Sprintf("%-17s %-14s %s", "Hora", "Resultado", "Intensidad")))
		b.WriteString("\n")
		for _, r := range st.Rows {
			fmt.Fprintf(&b, "%-17s %-14s %s\n", r.Time, r.Result, r.Intensity)
		}
	}

	if st.Warning != "" {
		b.WriteString("\n")
		b.WriteString(t.style(warningStyle, st.Warning))
		b.WriteString("\n")
	}
	return b.String()
}

func (t Terminal) style(s lipgloss.Style, text string) string {
	if t.Plain {
		return text
	}
	return s.Render(text)
}
