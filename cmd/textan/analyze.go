package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/textan/internal/analyzer"
	"github.com/verte-zerg/textan/internal/config"
	"github.com/verte-zerg/textan/internal/export"
	"github.com/verte-zerg/textan/internal/logging"
	"github.com/verte-zerg/textan/internal/model"
	"github.com/verte-zerg/textan/internal/report"
	"github.com/verte-zerg/textan/internal/session"
	"github.com/verte-zerg/textan/internal/textfile"
)

var (
	analyzeFormat string
	analyzeSave   string
	analyzeForce  bool

	parseFormat string
	parseVerify bool
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a text file (or stdin) and print the counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyzeCmd,
	}
	cmd.Flags().StringVar(&analyzeFormat, "format", string(report.FormatText), "output format: text, json or yaml")
	cmd.Flags().StringVar(&analyzeSave, "save", "", "also write an export file (.txt is appended when missing)")
	cmd.Flags().BoolVar(&analyzeForce, "force", false, "overwrite an existing export file")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(analyzeFormat)
	if err != nil {
		return err
	}
	text, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	s := session.New()
	s.Load(text)
	if _, err := s.Analyze(); err != nil {
		if errors.Is(err, analyzer.ErrEmptyInput) {
			return fmt.Errorf("nothing to analyze: %w", err)
		}
		return err
	}
	payload, err := s.Export()
	if err != nil {
		return err
	}
	if err := report.Render(cmd.OutOrStdout(), payload, format, 0); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if analyzeSave == "" {
		return nil
	}
	saved, err := export.SaveFile(analyzeSave, payload, analyzeForce)
	if err != nil {
		if errors.Is(err, export.ErrExists) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		return err
	}
	logErrf("Saved to %s\n", saved)
	recordExport(cliLogger(), saved, payload)
	return nil
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <export-file>",
		Short: "Read an export file and print its counts",
		Args:  cobra.ExactArgs(1),
		RunE:  runParseCmd,
	}
	cmd.Flags().StringVar(&parseFormat, "format", string(report.FormatText), "output format: text, json or yaml")
	cmd.Flags().BoolVar(&parseVerify, "verify", false, "re-analyze the stored text and fail on mismatching counts")
	return cmd
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(parseFormat)
	if err != nil {
		return err
	}
	payload, err := export.ParseFile(args[0])
	if err != nil {
		return err
	}
	if err := report.Render(cmd.OutOrStdout(), payload, format, 0); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !parseVerify {
		return nil
	}
	recomputed, err := analyzer.Analyze(payload.Text)
	if err != nil {
		return fmt.Errorf("failed to re-analyze stored text: %w", err)
	}
	if recomputed != payload.Result {
		return fmt.Errorf("stored counts %+v differ from recomputed %+v", payload.Result, recomputed)
	}
	return nil
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", &textfile.FileError{Op: "read", Path: "<stdin>", Err: err}
		}
		return string(data), nil
	}
	return textfile.Load(args[0])
}

func cliLogger() *logging.Logger {
	if rootVerbose {
		return logging.Stderr(logging.LevelDebug)
	}
	return logging.Stderr(logging.LevelWarn)
}

// recordExport adds a saved export to the history database. Failures are
// logged and never fail the command.
func recordExport(log *logging.Logger, path string, p model.ExportPayload) {
	st, closeStore := openHistory(log)
	defer closeStore()
	if st == nil {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	entry := model.HistoryEntry{
		SavedAt:   time.Now(),
		Path:      path,
		TextChars: utf8.RuneCountInString(p.Text),
		Result:    p.Result,
	}
	if _, err := st.InsertExport(context.Background(), entry); err != nil {
		log.Warnf("failed to record export history in %s: %v", config.DefaultDBPath(), err)
	}
}
