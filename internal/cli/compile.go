package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/qcypher/internal/cypher"
	"github.com/roach88/qcypher/internal/loader"
	"github.com/roach88/qcypher/internal/qgraph"
	"github.com/roach88/qcypher/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Mode            string
	MaxConnectivity int
	Skip            int
	Limit           int
	Output          string // output file path
	Record          string // compilation log database
	InputFormat     string // format of stdin input
}

// CompileFileResult is the outcome for one query file.
type CompileFileResult struct {
	Path        string `json:"path"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Cypher      string `json:"cypher,omitempty"`
	Code        string `json:"code,omitempty"`
	Kind        string `json:"kind,omitempty"`
	Error       string `json:"error,omitempty"`
	ID          string `json:"id,omitempty"` // recorded compilation
}

// Failed reports whether the file did not compile.
func (r CompileFileResult) Failed() bool {
	return r.Error != ""
}

// CompileReport is the JSON payload of the compile command.
type CompileReport struct {
	Mode     string              `json:"mode"`
	Files    []CompileFileResult `json:"files"`
	Compiled int                 `json:"compiled"`
	Failed   int                 `json:"failed"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <file|dir|->",
		Short: "Compile query graphs to Cypher",
		Long: `Compile query graph files (.json, .yaml, .yml, .cue) into Cypher.

A directory is walked recursively and every query file is compiled
independently. "-" reads one query graph from stdin.

Exit codes:
  0 - Every query compiled
  1 - One or more queries failed to decode or compile
  2 - Command error (invalid paths, bad flags, database errors)

Examples:
  qcypher compile query.json
  qcypher compile queries/ --mode match --max-connectivity 50
  qcypher compile query.cue --skip 0 --limit 100 --record compilations.db
  cat query.yaml | qcypher compile - --input-format yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", string(cypher.ModeAnswerMap), "statement shape (match|answer_map)")
	cmd.Flags().IntVar(&opts.MaxConnectivity, "max-connectivity", cypher.NoConnectivityCap, "bound on target node degree (-1 disables)")
	cmd.Flags().IntVar(&opts.Skip, "skip", 0, "SKIP value for answer_map queries")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "LIMIT value for answer_map queries")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Record, "record", "", "record compilations in this SQLite database")
	cmd.Flags().StringVar(&opts.InputFormat, "input-format", string(loader.FormatJSON), "format of stdin input (json|yaml|cue)")

	return cmd
}

// compileOptions turns flags into compiler options. Skip and Limit are only
// set when given on the command line.
func (o *CompileOptions) compileOptions(cmd *cobra.Command) (cypher.Options, error) {
	opts := cypher.DefaultOptions()
	if o.MaxConnectivity < cypher.NoConnectivityCap {
		return opts, fmt.Errorf("--max-connectivity must be -1 or greater, got %d", o.MaxConnectivity)
	}
	opts.MaxConnectivity = o.MaxConnectivity

	if cmd.Flags().Changed("skip") {
		if o.Skip < 0 {
			return opts, fmt.Errorf("--skip must be non-negative, got %d", o.Skip)
		}
		opts = opts.WithSkip(o.Skip)
	}
	if cmd.Flags().Changed("limit") {
		if o.Limit < 0 {
			return opts, fmt.Errorf("--limit must be non-negative, got %d", o.Limit)
		}
		opts = opts.WithLimit(o.Limit)
	}
	return opts, nil
}

// compiled pairs a file result with its decoded graph for recording.
type compiled struct {
	result CompileFileResult
	q      *qgraph.QGraph
	err    error
}

func runCompile(ctx context.Context, opts *CompileOptions, target string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	mode, err := cypher.ParseMode(opts.Mode)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, err)
	}
	copts, err := opts.compileOptions(cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, err)
	}
	vocab, err := opts.Vocab()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeVocabulary, err)
	}
	compiler := cypher.New(vocab)

	var results []compiled
	if target == "-" {
		results = []compiled{compileStdin(cmd.InOrStdin(), loader.Format(opts.InputFormat), compiler, mode, copts)}
	} else {
		paths, err := queryPaths(target)
		if err != nil {
			return formatter.Fail(exitCodeFor(err), ErrorCode(err), err)
		}
		formatter.VerboseLog("Found %d query file(s) in %s", len(paths), target)
		results, err = compileFiles(ctx, paths, compiler, mode, copts)
		if err != nil {
			return formatter.Fail(ExitCommandError, loader.ErrCodeGeneric, err)
		}
	}

	if opts.Record != "" {
		if err := recordAll(ctx, opts, results, mode, copts, cmd.ErrOrStderr()); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err)
		}
	}

	report := CompileReport{Mode: string(mode), Files: make([]CompileFileResult, 0, len(results))}
	for _, c := range results {
		report.Files = append(report.Files, c.result)
		if c.result.Failed() {
			report.Failed++
		} else {
			report.Compiled++
		}
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(statementsText(report, len(results) > 1)), 0o644); err != nil {
			return formatter.Fail(ExitCommandError, loader.ErrCodeWriteFailed, fmt.Errorf("writing output file: %w", err))
		}
		formatter.VerboseLog("Wrote %d statement(s) to %s", report.Compiled, opts.Output)
	}

	return outputCompileReport(formatter, report, opts.Output)
}

// queryPaths resolves the target to the files to compile.
func queryPaths(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err == nil && info.IsDir() {
		return loader.FindQueryFiles(target)
	}
	return []string{target}, nil
}

// compileFiles compiles every file concurrently. Results keep the order of
// paths. Per-file failures are results, not errors.
func compileFiles(ctx context.Context, paths []string, compiler *cypher.Compiler, mode cypher.Mode, opts cypher.Options) ([]compiled, error) {
	results := make([]compiled, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			q, err := loader.Load(path)
			results[i] = compileOne(path, q, err, compiler, mode, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func compileStdin(r io.Reader, format loader.Format, compiler *cypher.Compiler, mode cypher.Mode, opts cypher.Options) compiled {
	data, err := io.ReadAll(r)
	if err != nil {
		return compileOne("stdin", nil, fmt.Errorf("read stdin: %w", err), compiler, mode, opts)
	}
	q, err := loader.Parse(data, format, "stdin")
	return compileOne("stdin", q, err, compiler, mode, opts)
}

func compileOne(path string, q *qgraph.QGraph, loadErr error, compiler *cypher.Compiler, mode cypher.Mode, opts cypher.Options) compiled {
	c := compiled{result: CompileFileResult{Path: path}, q: q, err: loadErr}
	if loadErr != nil {
		c.q = nil
		c.result.setErr(loadErr)
		return c
	}

	if fp, err := qgraph.Fingerprint(q); err == nil {
		c.result.Fingerprint = fp
	}
	stmt, err := compiler.Compile(q, mode, opts)
	if err != nil {
		c.err = err
		c.result.setErr(err)
		return c
	}
	c.result.Cypher = stmt
	return c
}

func (r *CompileFileResult) setErr(err error) {
	r.Code = ErrorCode(err)
	r.Kind = cypher.ErrorKind(err)
	r.Error = err.Error()
}

// recordAll appends every decoded query to the compilation log, in input order.
func recordAll(ctx context.Context, opts *CompileOptions, results []compiled, mode cypher.Mode, copts cypher.Options, logW io.Writer) error {
	st, err := store.Open(opts.Record, store.WithLogger(opts.Logger(logW)))
	if err != nil {
		return err
	}
	defer st.Close()

	for i := range results {
		c := &results[i]
		if c.q == nil {
			continue
		}
		rec, err := st.Record(ctx, store.Entry{
			Source:  c.result.Path,
			Mode:    mode,
			Options: copts,
			QGraph:  c.q,
			Cypher:  c.result.Cypher,
			Err:     c.err,
		})
		if err != nil {
			return err
		}
		c.result.ID = rec.ID
	}
	return nil
}

// statementsText renders compiled statements. With headers, each statement
// is preceded by a "// <path>" comment line.
func statementsText(report CompileReport, headers bool) string {
	var b strings.Builder
	for _, f := range report.Files {
		if f.Failed() {
			continue
		}
		if headers {
			fmt.Fprintf(&b, "// %s\n", f.Path)
		}
		b.WriteString(f.Cypher)
		b.WriteString("\n")
		if headers {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func outputCompileReport(formatter *OutputFormatter, report CompileReport, outputFile string) error {
	if formatter.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: report}
		if report.Failed > 0 {
			first := firstFailure(report)
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    first.Code,
				Kind:    first.Kind,
				Message: fmt.Sprintf("%d of %d query file(s) failed", report.Failed, len(report.Files)),
			}
		}
		if err := formatter.encode(resp); err != nil {
			return err
		}
		return compileExit(report)
	}

	w := formatter.Writer
	single := len(report.Files) == 1

	if single {
		f := report.Files[0]
		if f.Failed() {
			fmt.Fprintf(w, "Error [%s]: %s\n", f.Code, f.Error)
			return compileExit(report)
		}
		if outputFile != "" {
			fmt.Fprintf(w, "Wrote statement to %s\n", outputFile)
		} else {
			fmt.Fprintln(w, f.Cypher)
		}
		if f.ID != "" {
			formatter.VerboseLog("Recorded as %s", f.ID)
		}
		return nil
	}

	if outputFile == "" {
		fmt.Fprint(w, statementsText(report, true))
	}
	for _, f := range report.Files {
		if f.Failed() {
			fmt.Fprintf(w, "✗ %s\n  Error [%s]: %s\n", f.Path, f.Code, f.Error)
		}
	}
	fmt.Fprintf(w, "Compiled %d of %d query file(s)\n", report.Compiled, len(report.Files))
	if outputFile != "" {
		fmt.Fprintf(w, "Wrote %d statement(s) to %s\n", report.Compiled, outputFile)
	}
	return compileExit(report)
}

func firstFailure(report CompileReport) CompileFileResult {
	for _, f := range report.Files {
		if f.Failed() {
			return f
		}
	}
	return CompileFileResult{}
}

func compileExit(report CompileReport) error {
	if report.Failed == 0 {
		return nil
	}
	if len(report.Files) == 1 {
		f := report.Files[0]
		if exitCodeForCode(f.Code) == ExitCommandError {
			return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", f.Code, f.Error))
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d query file(s) failed", report.Failed))
}

// exitCodeFor separates unusable input paths (exit 2) from queries that
// were read but are invalid (exit 1).
func exitCodeFor(err error) int {
	return exitCodeForCode(ErrorCode(err))
}

func exitCodeForCode(code string) int {
	switch code {
	case loader.ErrCodeNotFound, loader.ErrCodeScanError, loader.ErrCodeNoFiles, loader.ErrCodeUnsupported:
		return ExitCommandError
	default:
		return ExitFailure
	}
}
