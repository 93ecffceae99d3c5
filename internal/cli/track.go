package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/kindling/internal/ledger"
)

type DoneCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *DoneCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Name)
	if err != nil {
		return err
	}

	res, err := ctx.Ledger.Complete(habit.ID)
	if err != nil {
		if errors.Is(err, ledger.ErrAlreadyCompletedToday) {
			return fmt.Errorf("%q is already done for today (use 'kindling undo %s' to take it back)", c.Name, c.Name)
		}
		return err
	}

	fmt.Printf("✓ %s — streak %d\n", c.Name, res.Habit.CurrentStreak)
	if res.Milestone != nil {
		fmt.Printf("%s Milestone reached: %s (%s) — +%d credit(s), balance %d\n",
			res.Milestone.Emoji, res.Milestone.Name, res.Milestone.Description,
			res.Milestone.Credits, res.Habit.Credits)
	} else if next := ledger.NextMilestone(res.Habit.CurrentStreak); next != nil {
		fmt.Printf("  %d day(s) to the next milestone (%s)\n",
			next.Days-res.Habit.CurrentStreak, next.Name)
	}
	return nil
}

type SkipCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *SkipCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Name)
	if err != nil {
		return err
	}

	res, err := ctx.Ledger.Skip(habit.ID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientCredits):
			return fmt.Errorf("no credits to spend on %q — earn credits by reaching streak milestones", c.Name)
		case errors.Is(err, ledger.ErrAlreadyCompletedToday):
			return fmt.Errorf("%q already has a record for today", c.Name)
		}
		return err
	}

	fmt.Printf("◇ Skipped %s with a credit — streak held at %d, %d credit(s) left\n",
		c.Name, res.Habit.CurrentStreak, res.Habit.Credits)
	return nil
}

type UndoCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *UndoCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Name)
	if err != nil {
		return err
	}

	updated, err := ctx.Ledger.Undo(habit.ID)
	if err != nil {
		if errors.Is(err, ledger.ErrNoCompletionToday) {
			return fmt.Errorf("nothing recorded for %q today", c.Name)
		}
		return err
	}

	fmt.Printf("Undid today's record for %s — streak %d, credits %d\n",
		c.Name, updated.CurrentStreak, updated.Credits)
	return nil
}
