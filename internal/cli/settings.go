package cli

import "fmt"

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
	Set  SettingsSetCmd  `cmd:"" help:"Change a setting."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	fmt.Printf("streak-lookback-days: %d\n", settings.StreakLookbackDays)
	fmt.Printf("max-backups:          %d\n", settings.MaxBackups)
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" enum:"streak-lookback-days,max-backups" help:"Setting to change (streak-lookback-days, max-backups)."`
	Value int    `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	if c.Value <= 0 {
		return fmt.Errorf("%s must be positive", c.Key)
	}
	switch c.Key {
	case "streak-lookback-days":
		settings.StreakLookbackDays = c.Value
	case "max-backups":
		settings.MaxBackups = c.Value
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return err
	}
	fmt.Printf("Set %s to %d\n", c.Key, c.Value)
	return nil
}
