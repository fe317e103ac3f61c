package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/taskcal/internal/calendar"
	"github.com/sandeepkv93/taskcal/internal/commands"
	"github.com/sandeepkv93/taskcal/internal/model"
)

// minShortIDLen is the shortest id prefix printed. UUIDv7 prefixes encode the
// creation time, so ids made close together need longer ones.
const minShortIDLen = 8

func addList(topLevel *cobra.Command, a *app) {
	var filter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "list tasks in date order",
		Example: `
taskcal list
taskcal list --filter week
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			f, err := calendar.ParseFilter(filter)
			if err != nil {
				return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			now := time.Now().In(a.store.Location())
			all := a.store.Tasks()
			tasks := calendar.SortTasks(calendar.FilterTasks(all, f, now))
			return printTasks(cmd.OutOrStdout(), f.Label(), tasks, shortIDs(taskIDs(all)))
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "all, day, week or month")
	topLevel.AddCommand(cmd)
}

// printTasks writes one row per task. short maps each id to the prefix shown;
// it must be unique across every stored task, not only the listed ones.
func printTasks(w io.Writer, title string, tasks []model.Task, short map[string]string) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintf(w, "%s: no tasks\n", title)
		return err
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.AddRow("ID", "", "DATE", "TIME", "NAME", "TAGS")
	for _, task := range tasks {
		tbl.AddRow(short[task.ID], checkbox(task.Completed), task.Date, task.Time, task.Name, tagNames(task.Tags))
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", title, tbl)
	return err
}

// shortIDs returns the shortest prefix of each id, at least minShortIDLen
// long, that no other id in ids shares.
func shortIDs(ids []string) map[string]string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	out := make(map[string]string, len(sorted))
	for i, id := range sorted {
		n := minShortIDLen
		if i > 0 {
			n = max(n, commonPrefixLen(id, sorted[i-1])+1)
		}
		if i+1 < len(sorted) {
			n = max(n, commonPrefixLen(id, sorted[i+1])+1)
		}
		out[id] = id[:min(n, len(id))]
	}
	return out
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func taskIDs(tasks []model.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func tagNames(tags []model.Tag) string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, "#"+tag.Name)
	}
	return strings.Join(names, " ")
}
