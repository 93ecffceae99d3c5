package system

import (
	"fmt"

	"github.com/julianstephens/kindling/internal/cli"
	"github.com/julianstephens/kindling/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Repair inconsistencies by recalculating the affected habits."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	v := validation.New(ctx.Store, ctx.Ledger)
	result, err := v.ValidateAll()
	if err != nil {
		return err
	}

	fmt.Println(result.FormatReport())
	if !result.HasConflicts() {
		return nil
	}
	if !c.Fix {
		fmt.Println("Run 'kindling validate --fix' to repair.")
		return fmt.Errorf("%d inconsistencies found", len(result.Conflicts))
	}

	actions, err := v.AutoFix(result.Conflicts)
	if err != nil {
		return err
	}
	for _, action := range actions {
		fmt.Printf("  %s\n", action.Action)
	}
	fmt.Printf("Repaired %d habit(s).\n", len(actions))
	return nil
}
