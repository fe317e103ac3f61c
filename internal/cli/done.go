package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func addDone(topLevel *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:     "done <task id>",
		Aliases: []string{"toggle"},
		Short:   "toggle a task's completion",
		Example: `
taskcal done 3f2a9c1e
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) != 1 {
				return errors.New("requires a task id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.findTask(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.storeContext(cmd)
			defer cancel()
			task, err = a.store.ToggleCompletion(ctx, task.ID)
			if err != nil {
				return err
			}
			state := "reopened"
			if task.Completed {
				state = "completed"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %q\n", state, task.Name)
			return err
		},
	}

	topLevel.AddCommand(cmd)
}

func addRemove(topLevel *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:     "rm <task id>",
		Aliases: []string{"delete"},
		Short:   "delete a task",
		Example: `
taskcal rm 3f2a9c1e
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) != 1 {
				return errors.New("requires a task id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.findTask(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.storeContext(cmd)
			defer cancel()
			if err := a.store.DeleteTask(ctx, task.ID); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", task.Name)
			return err
		},
	}

	topLevel.AddCommand(cmd)
}
