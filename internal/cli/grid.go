package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/taskcal/internal/calendar"
	"github.com/sandeepkv93/taskcal/internal/commands"
	"github.com/sandeepkv93/taskcal/internal/update"
	"github.com/sandeepkv93/taskcal/internal/views"
)

func addGrid(topLevel *cobra.Command, a *app) {
	var width int

	cmd := &cobra.Command{
		Use:   "grid [YYYY-MM]",
		Short: "print a month grid with its tasks",
		Example: `
taskcal grid
taskcal grid 2024-03 --width 16
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) > 1 {
				return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "grid takes at most one month"}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := a.store.Location()
			now := time.Now().In(loc)
			month := calendar.MonthOf(now)
			if len(args) == 1 {
				t, err := time.ParseInLocation("2006-01", args[0], loc)
				if err != nil {
					return &commands.CommandError{
						Code:    commands.ErrCodeInvalidArgument,
						Message: fmt.Sprintf("grid requires YYYY-MM, got %q", args[0]),
					}
				}
				month = calendar.MonthOf(t)
			}

			data := update.GridData(month, a.store.Tasks(), "", now, loc)
			if width > 0 {
				data.CellWidth = width
			}
			data.Focused = true
			_, err := fmt.Fprintln(cmd.OutOrStdout(), views.RenderMonthGrid(data))
			return err
		},
	}

	cmd.Flags().IntVar(&width, "width", views.DefaultCellWidth, "width of each day cell")
	topLevel.AddCommand(cmd)
}
