package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/kindling/internal/clock"
	"github.com/julianstephens/kindling/internal/ledger"
	"github.com/julianstephens/kindling/internal/storage"
	"github.com/julianstephens/kindling/internal/tui/components/habits"
)

type sessionState int

const (
	stateDashboard sessionState = iota
	stateAddHabit
)

type habitFormModel struct {
	Name string
	Icon string
}

type Model struct {
	store    storage.Provider
	ledger   *ledger.Service
	clock    clock.Clock
	state    sessionState
	keys     KeyMap
	help     help.Model
	habits   habits.Model
	form     *huh.Form
	formData *habitFormModel
	status   string
	quitting bool
	width    int
	height   int
}

func NewModel(store storage.Provider, svc *ledger.Service, clk clock.Clock) Model {
	m := Model{
		store:  store,
		ledger: svc,
		clock:  clk,
		state:  stateDashboard,
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
	m.habits = habits.New(m.loadItems(), 0, 0)
	return m
}

// loadItems reads the habit list with each habit's slot state for today.
func (m *Model) loadItems() []habits.Item {
	habitList, err := m.store.GetAllHabits(false, false)
	if err != nil {
		m.status = err.Error()
		return nil
	}

	today := m.clock.Today()
	items := make([]habits.Item, 0, len(habitList))
	for _, h := range habitList {
		state := ledger.SlotEmpty
		completion, err := m.store.GetCompletion(h.ID, today)
		if err == nil {
			if completion.Skipped {
				state = ledger.SlotSkipped
			} else {
				state = ledger.SlotCompleted
			}
		} else if !errors.Is(err, storage.ErrNotFound) {
			m.status = err.Error()
		}
		items = append(items, habits.Item{Habit: h, State: state})
	}
	return items
}

func (m *Model) refresh() {
	m.habits.SetItems(m.loadItems())
}

func newHabitForm(data *habitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit name").
				Value(&data.Name).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Icon (optional emoji)").
				Value(&data.Icon),
		),
	)
}
