package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/kindling/internal/ledger"
	"github.com/julianstephens/kindling/internal/models"
)

type AddHabitMsg struct{}

type CompleteHabitMsg struct {
	ID string
}

type SkipHabitMsg struct {
	ID string
}

type UndoHabitMsg struct {
	ID string
}

type ArchiveHabitMsg struct {
	ID string
}

type Item struct {
	Habit models.Habit
	State ledger.SlotState
}

func (i Item) Title() string {
	marker := "○"
	switch i.State {
	case ledger.SlotCompleted:
		marker = "✓"
	case ledger.SlotSkipped:
		marker = "◇"
	}
	title := marker + " " + i.Habit.Name
	if i.Habit.Icon != "" {
		title = marker + " " + i.Habit.Icon + " " + i.Habit.Name
	}
	if i.Habit.ArchivedAt != nil {
		title = "[ARCHIVED] " + i.Habit.Name
	}
	if i.Habit.CurrentStreak > 0 {
		title += fmt.Sprintf("  🔥%d", i.Habit.CurrentStreak)
	}
	return title
}

func (i Item) Description() string {
	desc := ""
	switch i.State {
	case ledger.SlotCompleted:
		desc = "done today"
	case ledger.SlotSkipped:
		desc = "skipped today (credit spent)"
	default:
		desc = "not done today"
	}
	if i.Habit.Credits > 0 {
		desc += fmt.Sprintf(" · %d credit(s)", i.Habit.Credits)
	}
	if next := ledger.NextMilestone(i.Habit.CurrentStreak); next != nil && i.Habit.CurrentStreak > 0 {
		desc += fmt.Sprintf(" · %d to %s", next.Days-i.Habit.CurrentStreak, next.Name)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add      key.Binding
	Complete key.Binding
	Skip     key.Binding
	Undo     key.Binding
	Archive  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Complete: key.NewBinding(
			key.WithKeys("m", "enter"),
			key.WithHelp("m", "mark done"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip (spend credit)"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo today"),
		),
		Archive: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "archive"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	extra := func() []key.Binding {
		return []key.Binding{keys.Add, keys.Complete, keys.Skip, keys.Undo, keys.Archive}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	return Model{list: l, keys: keys}
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

func (m *Model) SetItems(items []Item) {
	m.list.SetItems(toListItems(items))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Complete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				if i.Habit.Active() && i.State == ledger.SlotEmpty {
					return m, func() tea.Msg { return CompleteHabitMsg{ID: i.Habit.ID} }
				}
			}
		case key.Matches(msg, m.keys.Skip):
			if i, ok := m.list.SelectedItem().(Item); ok {
				if i.Habit.Active() && i.State == ledger.SlotEmpty {
					return m, func() tea.Msg { return SkipHabitMsg{ID: i.Habit.ID} }
				}
			}
		case key.Matches(msg, m.keys.Undo):
			if i, ok := m.list.SelectedItem().(Item); ok {
				if i.Habit.Active() && i.State != ledger.SlotEmpty {
					return m, func() tea.Msg { return UndoHabitMsg{ID: i.Habit.ID} }
				}
			}
		case key.Matches(msg, m.keys.Archive):
			if i, ok := m.list.SelectedItem().(Item); ok {
				if i.Habit.Active() {
					return m, func() tea.Msg { return ArchiveHabitMsg{ID: i.Habit.ID} }
				}
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
