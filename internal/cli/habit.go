package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/kindling/internal/models"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive a habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit (soft delete)."`
	Restore HabitRestoreCmd `cmd:"" help:"Restore a deleted habit."`
}

type HabitAddCmd struct {
	Name  string `arg:"" help:"Habit name."`
	Icon  string `help:"Emoji or short icon shown next to the habit." default:""`
	Color string `help:"Display color (hex or name)." default:""`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if _, err := ctx.Store.GetHabitByName(c.Name); err == nil {
		return fmt.Errorf("habit with name %q already exists", c.Name)
	}

	habit := models.Habit{
		ID:        uuid.New().String(),
		Name:      c.Name,
		Icon:      c.Icon,
		Color:     c.Color,
		CreatedAt: time.Now(),
	}
	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Added habit: %s\n", c.Name)
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
	Deleted  bool `help:"Include deleted habits."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits(c.Archived, c.Deleted)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, habit := range habits {
		status := ""
		if habit.DeletedAt != nil {
			status = " [DELETED]"
		} else if habit.ArchivedAt != nil {
			status = " [ARCHIVED]"
		}
		streak := ""
		if habit.CurrentStreak > 0 {
			streak = fmt.Sprintf("  (streak %d, credits %d)", habit.CurrentStreak, habit.Credits)
		} else if habit.Credits > 0 {
			streak = fmt.Sprintf("  (credits %d)", habit.Credits)
		}
		fmt.Printf("%s%s%s\n", habit.Name, status, streak)
	}
	return nil
}

type HabitArchiveCmd struct {
	Name      string `arg:"" help:"Habit name to archive."`
	Unarchive bool   `help:"Unarchive the habit instead."`
}

func (c *HabitArchiveCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Name)
	if err != nil {
		return err
	}

	if c.Unarchive {
		if err := ctx.Store.UnarchiveHabit(habit.ID); err != nil {
			return err
		}
		fmt.Printf("Unarchived habit: %s\n", c.Name)
		return nil
	}

	if err := ctx.Store.ArchiveHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Archived habit: %s\n", c.Name)
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name to delete."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted habit: %s\n", c.Name)
	fmt.Println("(This is a soft delete. Use 'kindling habit restore' to undo)")
	return nil
}

type HabitRestoreCmd struct {
	Name string `arg:"" help:"Habit name to restore."`
}

func (c *HabitRestoreCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		return err
	}

	var habit *models.Habit
	for i, h := range habits {
		if h.Name == c.Name && h.DeletedAt != nil {
			habit = &habits[i]
			break
		}
	}
	if habit == nil {
		return fmt.Errorf("deleted habit %q not found", c.Name)
	}

	if err := ctx.Store.RestoreHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Restored habit: %s\n", c.Name)
	return nil
}
