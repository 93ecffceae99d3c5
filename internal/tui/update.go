package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/julianstephens/kindling/internal/ledger"
	"github.com/julianstephens/kindling/internal/models"
	"github.com/julianstephens/kindling/internal/tui/components/habits"
)

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.habits.SetSize(msg.Width-4, msg.Height-6)
	}

	if m.state == stateAddHabit {
		return m.updateAddHabit(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case habits.AddHabitMsg:
		m.formData = &habitFormModel{}
		m.form = newHabitForm(m.formData)
		m.state = stateAddHabit
		return m, m.form.Init()

	case habits.CompleteHabitMsg:
		res, err := m.ledger.Complete(msg.ID)
		switch {
		case err != nil:
			m.status = err.Error()
		case res.Milestone != nil:
			m.status = fmt.Sprintf("%s Milestone: %s! +%d credit(s)",
				res.Milestone.Emoji, res.Milestone.Name, res.Milestone.Credits)
		default:
			m.status = fmt.Sprintf("✓ %s — streak %d", res.Habit.Name, res.Habit.CurrentStreak)
		}
		m.refresh()
		return m, nil

	case habits.SkipHabitMsg:
		res, err := m.ledger.Skip(msg.ID)
		if err != nil {
			if errors.Is(err, ledger.ErrInsufficientCredits) {
				m.status = "No credits to spend — reach a streak milestone to earn one"
			} else {
				m.status = err.Error()
			}
		} else {
			m.status = fmt.Sprintf("◇ Skipped %s — %d credit(s) left", res.Habit.Name, res.Habit.Credits)
		}
		m.refresh()
		return m, nil

	case habits.UndoHabitMsg:
		updated, err := m.ledger.Undo(msg.ID)
		if err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("Undid today's record for %s", updated.Name)
		}
		m.refresh()
		return m, nil

	case habits.ArchiveHabitMsg:
		if err := m.store.ArchiveHabit(msg.ID); err != nil {
			m.status = err.Error()
		} else {
			m.status = "Habit archived"
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.habits, cmd = m.habits.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = stateDashboard
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		habit := models.Habit{
			ID:        uuid.New().String(),
			Name:      m.formData.Name,
			Icon:      m.formData.Icon,
			CreatedAt: time.Now(),
		}
		if err := m.store.AddHabit(habit); err != nil {
			m.status = err.Error()
			m.form.State = huh.StateNormal
		} else {
			m.status = fmt.Sprintf("Added habit %s", habit.Name)
			m.refresh()
			m.state = stateDashboard
		}
	case huh.StateAborted:
		m.state = stateDashboard
	}
	return m, cmd
}
