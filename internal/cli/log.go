package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/kindling/internal/models"
)

type LogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for a specific habit only."`
}

const logNameWidth = 20

func (c *LogCmd) Run(ctx *Context) error {
	if c.Days < 1 {
		return fmt.Errorf("--days must be at least 1, got %d", c.Days)
	}

	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits(false, false)
	if err != nil {
		return err
	}
	if c.Habit != "" {
		found := false
		for _, h := range habits {
			if h.Name == c.Habit {
				habits = []models.Habit{h}
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("habit %q not found", c.Habit)
		}
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	end := ctx.Clock.Today()
	start := end
	for i := 1; i < c.Days; i++ {
		start = start.Prev()
	}

	fmt.Printf("Habit log (last %d days):\n\n", c.Days)

	// Header row with MM/DD columns, then a streak column.
	fmt.Print(pad("Habit", logNameWidth))
	for d := start; !d.After(end); d = d.Next() {
		fmt.Printf(" %5s", d.Time().Format("01/02"))
	}
	fmt.Println("  streak")
	fmt.Println(strings.Repeat("-", logNameWidth+6*c.Days+8))

	for _, habit := range habits {
		fmt.Print(pad(habit.Name, logNameWidth))

		completions, err := ctx.Store.ListCompletions(habit.ID)
		if err != nil {
			return err
		}
		byDay := make(map[models.Day]bool, len(completions))
		skippedDay := make(map[models.Day]bool)
		for _, completion := range completions {
			byDay[completion.Day] = true
			if completion.Skipped {
				skippedDay[completion.Day] = true
			}
		}

		for d := start; !d.After(end); d = d.Next() {
			switch {
			case skippedDay[d]:
				fmt.Print("  s   ")
			case byDay[d]:
				fmt.Print("  x   ")
			default:
				fmt.Print("  .   ")
			}
		}
		fmt.Printf("  %d\n", habit.CurrentStreak)
	}
	return nil
}

func pad(s string, width int) string {
	if len(s) > width {
		if width >= 5 {
			return s[:width-3] + "..."
		}
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
