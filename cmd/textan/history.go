package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/textan/internal/config"
	"github.com/verte-zerg/textan/internal/historyui"
	"github.com/verte-zerg/textan/internal/model"
	"github.com/verte-zerg/textan/internal/report"
	"github.com/verte-zerg/textan/internal/store"
)

var (
	historySince string
	historyLast  int
	historyPlain bool
	historyPlot  bool
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved exports",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N exports")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a table instead of opening the browser")
	cmd.Flags().BoolVar(&historyPlot, "plot", false, "with --plain, also plot words and sentences per export")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	filter, err := historyFilter(historySince, historyLast)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if historyPlain || !report.IsTerminal(os.Stdout) {
		entries, err := st.ListExports(context.Background(), filter)
		if err != nil {
			return fmt.Errorf("failed to list exports: %w", err)
		}
		out := cmd.OutOrStdout()
		if err := report.RenderHistory(out, entries); err != nil {
			return err
		}
		if historyPlot && len(entries) > 1 {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
			return report.PlotTrends(out, "Per-export trend", report.HistoryTrends(entries), 0, 0)
		}
		return nil
	}

	m := historyui.NewModel(st, filter)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func historyFilter(since string, last int) (model.HistoryFilter, error) {
	var filter model.HistoryFilter
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	if last < 0 {
		return filter, fmt.Errorf("--last must be >= 0")
	}
	filter.Last = last
	return filter, nil
}
