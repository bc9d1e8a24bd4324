package tui

import (
	"fmt"
	"strings"

	"github.com/danieljhkim/mapbench/internal/engine"
)

// View renders the workbench.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(fmt.Sprintf("mapbench · %s", m.session)))
	b.WriteString("\n\n")

	rows := m.visible()
	if len(rows) == 0 {
		b.WriteString(m.styles.Status.Render("  no layers; add one with `mapbench add`"))
		b.WriteString("\n")
	}
	for i, l := range rows {
		b.WriteString(m.renderRow(i, l))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		if m.warning {
			b.WriteString(m.styles.Warning.Render(m.status))
		} else {
			b.WriteString(m.styles.Status.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderRow(i int, l engine.LayerInfo) string {
	marker := "  "
	if i == m.cursor {
		marker = "> "
	}

	var flags []string
	if l.KeepOnTop {
		flags = append(flags, "pinned")
	}
	if !l.Visible {
		flags = append(flags, "hidden")
	}
	if l.Opacity < 1 {
		flags = append(flags, fmt.Sprintf("%.0f%%", l.Opacity*100))
	}
	suffix := ""
	if len(flags) > 0 {
		suffix = " [" + strings.Join(flags, ", ") + "]"
	}

	line := fmt.Sprintf("%s%2d  %-24s %-8s %s%s", marker, i, l.Name, l.Kind, l.ShortID, suffix)

	switch {
	case m.grabbed && i == m.cursor:
		return m.styles.Grabbed.Render(line)
	case i == m.cursor:
		return m.styles.Cursor.Render(line)
	case !l.Visible:
		return m.styles.Hidden.Render(line)
	case l.KeepOnTop:
		return m.styles.Pinned.Render(line)
	default:
		return m.styles.Text.Render(line)
	}
}
