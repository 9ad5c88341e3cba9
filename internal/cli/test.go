package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/qcypher/internal/harness"
	"github.com/roach88/qcypher/internal/loader"
)

// ErrCodeTestFailed reports that at least one scenario failed.
const ErrCodeTestFailed = "E_TEST_FAILED"

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // glob over scenario file names, without extension
}

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name        string   `json:"name"`
	File        string   `json:"file"`
	Pass        bool     `json:"pass"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	Kind        string   `json:"kind,omitempty"` // error kind when compilation failed
	Golden      string   `json:"golden,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

// TestResult is the outcome of a test run.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run compile scenarios",
		Long: `Run YAML compile scenarios through the harness.

Each scenario compiles a query graph and checks the statement (or the
error) against its assertions. When golden/<scenario>.golden exists next
to the scenario file, the output must also match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  qcypher test ./scenarios
  qcypher test ./scenarios --filter "gene_*"
  qcypher test ./scenarios --update
  qcypher test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only scenario files whose name matches this glob")

	return cmd
}

func runTests(ctx context.Context, opts *TestOptions, dir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return formatter.Fail(ExitCommandError, loader.ErrCodeNotFound, fmt.Errorf("scenarios directory not found: %s", dir))
	}
	files, err := findScenarioFiles(dir, opts.Filter)
	if err != nil {
		return formatter.Fail(ExitCommandError, loader.ErrCodeScanError, fmt.Errorf("find scenarios: %w", err))
	}

	runner := harness.NewRunner(harness.WithLogger(opts.Logger(cmd.ErrOrStderr())))

	// Scenarios are independent; each writes only its own golden file.
	results := make([]ScenarioResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			results[i] = runScenario(gctx, runner, file, opts.Update)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return formatter.Fail(ExitCommandError, loader.ErrCodeGeneric, err)
	}

	summary := TestResult{Scenarios: results, Total: len(results)}
	for _, r := range results {
		if r.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	if formatter.Format == "json" {
		return reportTestsJSON(formatter, summary)
	}
	return reportTestsText(formatter.Writer, summary, opts.Update)
}

// findScenarioFiles lists the .yaml and .yml files under dir in lexical
// order, skipping golden directories.
func findScenarioFiles(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "golden" && path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			if ok, _ := filepath.Match(filter, strings.TrimSuffix(d.Name(), ext)); !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// runScenario loads, runs and golden-checks one scenario file. Every
// problem becomes a failed result rather than an error.
func runScenario(ctx context.Context, runner *harness.Runner, file string, update bool) ScenarioResult {
	res := ScenarioResult{Name: filepath.Base(file), File: file}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		res.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
		return res
	}
	res.Name = scenario.Name

	run, err := runner.Run(ctx, scenario)
	if err != nil {
		res.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return res
	}
	res.Fingerprint = run.Fingerprint
	res.Kind = run.ErrorKind
	res.Errors = run.Errors

	goldenPath := harness.GoldenPath(file)
	switch {
	case update:
		if err := harness.UpdateGolden(goldenPath, run); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("failed to update golden file: %v", err))
			return res
		}
		res.Golden = "updated"
	default:
		match, err := harness.CompareGolden(goldenPath, run)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// assertions only
		case err != nil:
			res.Errors = append(res.Errors, fmt.Sprintf("golden comparison failed: %v", err))
		case !match:
			res.Errors = append(res.Errors, "output does not match golden file (run with --update to regenerate)")
			res.Golden = "mismatch"
		default:
			res.Golden = "match"
		}
	}

	res.Pass = run.Pass && len(res.Errors) == 0
	return res
}

func reportTestsJSON(f *OutputFormatter, summary TestResult) error {
	if summary.Failed == 0 {
		return f.Success(summary)
	}

	msg := fmt.Sprintf("%d scenario(s) failed", summary.Failed)
	if err := f.encode(CLIResponse{
		Status: "error",
		Data:   summary,
		Error:  &CLIError{Code: ErrCodeTestFailed, Message: msg},
	}); err != nil {
		return err
	}
	return NewExitError(ExitFailure, msg)
}

func reportTestsText(w io.Writer, summary TestResult, update bool) error {
	if summary.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	for _, r := range summary.Scenarios {
		if !r.Pass {
			fmt.Fprintf(w, "✗ %s\n", r.Name)
			for _, e := range r.Errors {
				fmt.Fprintf(w, "  %s\n", e)
			}
			continue
		}
		note := ""
		if update {
			note = " (golden updated)"
		}
		fmt.Fprintf(w, "✓ %s%s\n", r.Name, note)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", summary.Passed, summary.Failed, summary.Total)
	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", summary.Failed))
	}
	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
