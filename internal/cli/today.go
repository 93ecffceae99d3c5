package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/kindling/internal/ledger"
	"github.com/julianstephens/kindling/internal/storage"
)

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	streakStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	// Lapsed streaks are zeroed before the list is shown, so a stale streak
	// is never displayed.
	swept, err := ctx.Ledger.SweepLapsed()
	if err != nil {
		return err
	}
	for _, h := range swept {
		fmt.Printf("(streak lapsed for %s)\n", h.Name)
	}

	habits, err := ctx.Store.GetAllHabits(false, false)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found. Add one with 'kindling habit add'.")
		return nil
	}

	today := ctx.Clock.Today()
	fmt.Printf("Habits for %s:\n\n", today)

	recorded := 0
	for _, habit := range habits {
		state := ledger.SlotEmpty
		completion, err := ctx.Store.GetCompletion(habit.ID, today)
		switch {
		case err == nil:
			if completion.Skipped {
				state = ledger.SlotSkipped
			} else {
				state = ledger.SlotCompleted
			}
			recorded++
		case errors.Is(err, storage.ErrNotFound):
			// Nothing recorded yet.
		default:
			return err
		}

		var marker string
		switch state {
		case ledger.SlotCompleted:
			marker = doneStyle.Render("✓")
		case ledger.SlotSkipped:
			marker = skippedStyle.Render("◇")
		default:
			marker = pendingStyle.Render("○")
		}

		line := fmt.Sprintf("%s %s", marker, habit.Name)
		if habit.Icon != "" {
			line = fmt.Sprintf("%s %s %s", marker, habit.Icon, habit.Name)
		}
		if habit.CurrentStreak > 0 {
			line += streakStyle.Render(fmt.Sprintf("  🔥%d", habit.CurrentStreak))
		}
		if habit.Credits > 0 {
			line += fmt.Sprintf("  [%d credit(s)]", habit.Credits)
		}
		fmt.Println(line)
	}

	fmt.Printf("\nRecorded: %d/%d\n", recorded, len(habits))
	return nil
}
