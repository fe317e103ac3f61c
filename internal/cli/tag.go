package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func addTag(topLevel *cobra.Command, a *app) {
	var color string

	cmd := &cobra.Command{
		Use:   "tag <name>",
		Short: "create a tag, or show the existing one with that name",
		Example: `
taskcal tag home --color "#ff8800"
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a tag name")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.storeContext(cmd)
			defer cancel()
			tag, err := a.store.UpsertTag(ctx, strings.Join(args, " "), color)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "#%s %s\n", tag.Name, tag.Color)
			return err
		},
	}

	cmd.Flags().StringVarP(&color, "color", "c", "", "hex color such as #ff8800 (default #808080)")
	topLevel.AddCommand(cmd)
}

func addTags(topLevel *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "list tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			tags := a.store.Tags()
			if len(tags) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "no tags")
				return err
			}
			tbl := uitable.New()
			tbl.Separator = "  "
			ids := make([]string, 0, len(tags))
			for _, tag := range tags {
				ids = append(ids, tag.ID)
			}
			short := shortIDs(ids)
			tbl.AddRow("ID", "NAME", "COLOR")
			for _, tag := range tags {
				tbl.AddRow(short[tag.ID], tag.Name, tag.Color)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return err
		},
	}

	topLevel.AddCommand(cmd)
}
