package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskcal/internal/calendar"
	"github.com/sandeepkv93/taskcal/internal/update"
)

func addUI(topLevel *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the calendar",
		Example: `
taskcal ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runUI(cmd)
		},
	}

	topLevel.AddCommand(cmd)
}

func (a *app) runUI(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	filter, err := calendar.ParseFilter(a.cfg.DefaultFilter)
	if err != nil {
		a.log.Warn("ignoring default filter", zap.String("filter", a.cfg.DefaultFilter), zap.Error(err))
		filter = calendar.FilterAll
	}

	m := update.NewModel(update.Options{
		Store:        a.store,
		Logger:       a.log,
		Location:     a.store.Location(),
		StoreTimeout: a.cfg.StoreTimeout(),
		Keys:         a.cfg.Keys,
		Filter:       filter,
		StatePath:    a.statePath(),
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	a.log.Info("ui started", zap.String("backend", a.cfg.Backend))
	_, err = program.Run()
	return err
}
