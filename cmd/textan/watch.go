package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/textan/internal/analyzer"
	"github.com/verte-zerg/textan/internal/model"
	"github.com/verte-zerg/textan/internal/report"
	"github.com/verte-zerg/textan/internal/textfile"
	"github.com/verte-zerg/textan/internal/watch"
)

var (
	watchDebounce time.Duration
	watchFormat   string
)

// stopSignals end a running watch.
var stopSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-analyze a text file every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatchCmd,
	}
	cmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before re-analyzing")
	cmd.Flags().StringVar(&watchFormat, "format", string(report.FormatText), "output format: text, json or yaml")
	return cmd
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(watchFormat)
	if err != nil {
		return err
	}
	log := cliLogger()
	out := cmd.OutOrStdout()
	var mu sync.Mutex
	analyzeOnce := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if err := analyzeToWriter(out, path, format, time.Now()); err != nil {
			log.Warnf("%v", err)
		}
	}

	w, err := watch.New(args[0], watchDebounce, log, analyzeOnce)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			log.Errorf("failed to close watcher: %v", cerr)
		}
	}()

	analyzeOnce(w.Path())
	logErrf("Watching %s (ctrl+c to stop)\n", w.Path())

	ctx, stop := signal.NotifyContext(context.Background(), stopSignals...)
	defer stop()
	return w.Run(ctx)
}

func analyzeToWriter(out io.Writer, path string, format report.Format, now time.Time) error {
	text, err := textfile.Load(path)
	if err != nil {
		return err
	}
	res, err := analyzer.Analyze(text)
	if err != nil && !errors.Is(err, analyzer.ErrEmptyInput) {
		return err
	}
	if format == report.FormatText {
		if _, err := fmt.Fprintf(out, "== %s  %s ==\n", path, now.Format("15:04:05")); err != nil {
			return err
		}
	}
	return report.Render(out, model.ExportPayload{Text: text, Result: res}, format, 0)
}
