package cli

import (
	"fmt"

	"github.com/julianstephens/kindling/internal/models"
)

type BackfillCmd struct {
	Name   string   `arg:"" help:"Habit name."`
	Dates  []string `arg:"" optional:"" help:"Days to add in YYYY-MM-DD format."`
	From   string   `help:"Start of a day range (YYYY-MM-DD), inclusive."`
	To     string   `help:"End of a day range (YYYY-MM-DD), inclusive. Defaults to today."`
	Remove string   `help:"Remove the record for a single day instead of adding." placeholder:"YYYY-MM-DD"`
}

func (c *BackfillCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Name)
	if err != nil {
		return err
	}

	if c.Remove != "" {
		day, err := models.ParseDay(c.Remove)
		if err != nil {
			return err
		}
		updated, err := ctx.Ledger.BackfillRemove(habit.ID, day)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %s from %s — streak %d, credits %d\n",
			day, c.Name, updated.CurrentStreak, updated.Credits)
		return nil
	}

	days, err := c.resolveDays(ctx)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		return fmt.Errorf("no days given: pass dates, or --from/--to for a range")
	}

	updated, err := ctx.Ledger.BackfillAdd(habit.ID, days)
	if err != nil {
		return err
	}

	fmt.Printf("Backfilled %d day(s) for %s — streak %d, longest %d, credits %d\n",
		len(days), c.Name, updated.CurrentStreak, updated.LongestStreak, updated.Credits)
	return nil
}

func (c *BackfillCmd) resolveDays(ctx *Context) ([]models.Day, error) {
	var days []models.Day
	for _, s := range c.Dates {
		day, err := models.ParseDay(s)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	if c.From != "" {
		from, err := models.ParseDay(c.From)
		if err != nil {
			return nil, err
		}
		to := ctx.Clock.Today()
		if c.To != "" {
			if to, err = models.ParseDay(c.To); err != nil {
				return nil, err
			}
		}
		if to.Before(from) {
			return nil, fmt.Errorf("--to (%s) is before --from (%s)", to, from)
		}
		for d := from; !d.After(to); d = d.Next() {
			days = append(days, d)
		}
	} else if c.To != "" {
		return nil, fmt.Errorf("--to requires --from")
	}

	return days, nil
}

type RecalcCmd struct {
	Name string `arg:"" optional:"" help:"Habit name. Recalculates every habit when omitted."`
}

func (c *RecalcCmd) Run(ctx *Context) error {
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
		all, err := ctx.Store.GetAllHabits(true, false)
		if err != nil {
			return err
		}
		habits = all
	}

	for _, habit := range habits {
		summary, err := ctx.Ledger.Recalculate(habit.ID)
		if err != nil {
			return fmt.Errorf("recalculating %q: %w", habit.Name, err)
		}
		if summary.Changed() {
			fmt.Printf("%s: streak %d -> %d, credits %d -> %d\n",
				habit.Name, summary.PrevStreak, summary.Habit.CurrentStreak,
				summary.PrevCredits, summary.Habit.Credits)
		} else {
			fmt.Printf("%s: no changes\n", habit.Name)
		}
	}
	return nil
}
