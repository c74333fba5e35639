package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"nestml/internal/diag"
	"nestml/internal/diagfmt"
	"nestml/internal/driver"
	"nestml/internal/observ"
	"nestml/internal/source"
	"nestml/internal/ui"
	"nestml/internal/units"
)

var (
	checkFormat           string
	checkJobs             int
	checkNoWarnings       bool
	checkWarningsAsErrors bool
	checkUI               string
	checkDiskCache        bool
	checkTargetsPath      string
)

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().IntVar(&checkJobs, "jobs", 0, "parallel workers (0 = number of CPUs)")
	checkCmd.Flags().BoolVar(&checkNoWarnings, "no-warnings", false, "hide warnings")
	checkCmd.Flags().BoolVar(&checkWarningsAsErrors, "warnings-as-errors", false, "treat warnings as errors")
	checkCmd.Flags().StringVar(&checkUI, "ui", "auto", "live progress view (auto|on|off)")
	checkCmd.Flags().BoolVar(&checkDiskCache, "disk-cache", false, "reuse cached outcomes for unchanged models")
	checkCmd.Flags().StringVar(&checkTargetsPath, "targets", "", "canonical-targets TOML file")
}

var checkCmd = &cobra.Command{
	Use:   "check <model.json|dir>...",
	Short: "Type-check model dumps",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		paths, err := collectModelPaths(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no model dumps found")
		}

		opts := driver.Options{Jobs: checkJobs}
		opts.MaxDiagnostics, _ = cmd.Flags().GetInt("max-diagnostics")

		if checkTargetsPath != "" {
			targets, err := units.LoadTargets(checkTargetsPath)
			if err != nil {
				return err
			}
			opts.Targets = targets
		}

		if checkDiskCache {
			cache, err := driver.OpenDiskCache("nestml")
			if err != nil {
				return fmt.Errorf("disk cache: %w", err)
			}
			opts.Cache = cache
		}

		showTimings, _ := cmd.Flags().GetBool("timings")
		if showTimings {
			opts.Timer = observ.NewTimer()
		}

		mode, err := readUIMode(checkUI)
		if err != nil {
			return err
		}

		fileSet := source.NewFileSet()
		var results []driver.Result
		if shouldUseTUI(mode) && checkFormat == "pretty" {
			results, err = runWithProgress(cmd, fileSet, paths, opts)
		} else {
			results, err = driver.CheckPaths(cmd.Context(), fileSet, paths, opts)
		}
		if err != nil {
			return err
		}

		merged := diag.NewBag(opts.MaxDiagnostics)
		for _, res := range results {
			merged.Merge(res.Bag)
		}
		if checkWarningsAsErrors {
			promoteWarnings(merged)
		}
		if checkNoWarnings {
			dropWarnings(merged)
		}
		merged.Sort()
		merged.Dedup()

		if err := renderDiagnostics(cmd, merged, fileSet); err != nil {
			return err
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		if showTimings && !quiet && opts.Timer != nil {
			fmt.Fprint(cmd.ErrOrStderr(), opts.Timer.Summary())
		}

		if merged.HasErrors() {
			return fmt.Errorf("checking failed")
		}
		return nil
	},
}

func collectModelPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			found, err := driver.ListModelFiles(arg)
			if err != nil {
				return nil, err
			}
			paths = append(paths, found...)
			continue
		}
		paths = append(paths, arg)
	}
	return paths, nil
}

type checkOutcome struct {
	results []driver.Result
	err     error
}

// runWithProgress checks in a background goroutine while the terminal
// renders live progress from the driver's event stream. The outcome is
// always drained, so results survive a UI failure.
func runWithProgress(cmd *cobra.Command, fileSet *source.FileSet, paths []string, opts driver.Options) ([]driver.Result, error) {
	events := make(chan driver.Event, len(paths)*2)
	outcomeCh := make(chan checkOutcome, 1)
	opts.Observer = func(ev driver.Event) { events <- ev }

	go func() {
		results, err := driver.CheckPaths(cmd.Context(), fileSet, paths, opts)
		outcomeCh <- checkOutcome{results: results, err: err}
		close(events)
	}()

	program := tea.NewProgram(ui.NewProgressModel("checking models", paths, events))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}

func renderDiagnostics(cmd *cobra.Command, bag *diag.Bag, fileSet *source.FileSet) error {
	out := cmd.OutOrStdout()
	colored := useColor(cmd)

	switch checkFormat {
	case "pretty":
		diagfmt.Pretty(out, bag, fileSet, diagfmt.PrettyOpts{
			Color:     colored,
			ShowNotes: true,
			ShowFixes: true,
		})
		diagfmt.Summary(out, bag, colored)
		return nil
	case "json":
		return diagfmt.JSON(out, bag, fileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			IncludeFixes:     true,
		})
	case "short":
		diagfmt.Short(out, bag, fileSet)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, json or short)", checkFormat)
	}
}

func promoteWarnings(bag *diag.Bag) {
	items := bag.Items()
	for i := range items {
		if items[i].Severity == diag.SevWarning {
			items[i].Severity = diag.SevError
		}
	}
}

func dropWarnings(bag *diag.Bag) {
	kept := diag.NewBag(bag.Len())
	for _, d := range bag.Items() {
		if d.Severity != diag.SevWarning {
			kept.Add(d)
		}
	}
	*bag = *kept
}
