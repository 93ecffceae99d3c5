package cli

import (
	"fmt"

	"github.com/julianstephens/kindling/internal/ledger"
	"github.com/julianstephens/kindling/internal/models"
)

type StatsCmd struct {
	Name string `arg:"" optional:"" help:"Habit name. Shows all habits when omitted."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	var habits []models.Habit
	if c.Name != "" {
		habit, err := ctx.FindHabit(c.Name)
		if err != nil {
			return err
		}
		habits = []models.Habit{habit}
	} else {
		all, err := ctx.Store.GetAllHabits(false, false)
		if err != nil {
			return err
		}
		habits = all
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, habit := range habits {
		completions, err := ctx.Store.ListCompletions(habit.ID)
		if err != nil {
			return err
		}
		genuine, skips := 0, 0
		for _, completion := range completions {
			if completion.Skipped {
				skips++
			} else {
				genuine++
			}
		}

		fmt.Printf("%s\n", habit.Name)
		fmt.Printf("  current streak:  %d\n", habit.CurrentStreak)
		fmt.Printf("  longest streak:  %d\n", habit.LongestStreak)
		fmt.Printf("  credits:         %d\n", habit.Credits)
		fmt.Printf("  completions:     %d (+%d skipped)\n", genuine, skips)
		if habit.LastCompletedAt != "" {
			fmt.Printf("  last completed:  %s\n", habit.LastCompletedAt)
		}
		if next := ledger.NextMilestone(habit.CurrentStreak); next != nil {
			fmt.Printf("  next milestone:  %s %s at day %d (+%d credit(s), %d to go)\n",
				next.Emoji, next.Name, next.Days, next.Credits, next.Days-habit.CurrentStreak)
		} else {
			fmt.Printf("  next milestone:  none — past the last one\n")
		}
		fmt.Println()
	}
	return nil
}
