package tui

import (
	"strings"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.state == stateAddHabit {
		return docStyle.Render(titleStyle.Render("New Habit") + "\n" + formStyle.Render(m.form.View()))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("🔥 Kindling — " + string(m.clock.Today())))
	b.WriteString("\n")
	b.WriteString(m.habits.View())

	if m.status != "" {
		style := statusStyle
		if strings.Contains(m.status, "Milestone") {
			style = milestoneStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.status))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m))

	return docStyle.Render(b.String())
}
