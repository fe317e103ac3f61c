package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/taskcal/internal/calendar"
	"github.com/sandeepkv93/taskcal/internal/model"
)

type addOptions struct {
	date        string
	clock       string
	description string
	tags        []string
}

func addAdd(topLevel *cobra.Command, a *app) {
	opts := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "add a task",
		Example: `
taskcal add pay rent --date 2024-03-15 --tag home
taskcal add standup --time 09:30 --tag work --tag daily
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a task name")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := model.TaskDraft{
				Name:        strings.Join(args, " "),
				Date:        opts.date,
				Time:        opts.clock,
				Description: opts.description,
			}
			if draft.Date == "" {
				draft.Date = calendar.CanonicalDateKey(time.Now().In(a.store.Location()))
			}

			ctx, cancel := a.storeContext(cmd)
			defer cancel()
			for _, name := range opts.tags {
				tag, err := a.store.UpsertTag(ctx, name, "")
				if err != nil {
					return err
				}
				draft.AddTag(tag)
			}
			task, err := a.store.CreateTask(ctx, draft)
			if err != nil {
				return err
			}
			short := shortIDs(taskIDs(a.store.Tasks()))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added %s %q on %s\n", short[task.ID], task.Name, task.Date)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.date, "date", "d", "", "due date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&opts.clock, "time", "t", "", "time of day as HH:MM")
	cmd.Flags().StringVar(&opts.description, "description", "", "markdown notes")
	cmd.Flags().StringArrayVar(&opts.tags, "tag", nil, "tag name, created when new; repeatable")
	topLevel.AddCommand(cmd)
}
