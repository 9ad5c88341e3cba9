package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qcypher/internal/loader"
	"github.com/roach88/qcypher/internal/qgraph"
)

// FileValidation holds the findings for one query file.
type FileValidation struct {
	Path   string                   `json:"path"`
	Valid  bool                     `json:"valid"`
	Errors []qgraph.ValidationError `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file|dir>",
		Short: "Validate query graphs without compiling",
		Long: `Decode query graph files and report every problem that would stop
compilation: dangling edge endpoints, unsupported property values, empty
label lists and malformed attributes.

Unlike compile, validate reports all findings in a file instead of the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, target string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	paths, err := queryPaths(target)
	if err != nil {
		return formatter.Fail(exitCodeFor(err), ErrorCode(err), err)
	}
	formatter.VerboseLog("Found %d query file(s) in %s", len(paths), target)

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(paths))}
	for _, path := range paths {
		fv := validateFile(path)
		if !fv.Valid {
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	// A single unreadable path is a command error, not a finding.
	if len(paths) == 1 && !result.Valid {
		if code := result.Files[0].Errors[0].Code; exitCodeForCode(code) == ExitCommandError {
			return formatter.Fail(ExitCommandError, code, fmt.Errorf("%s", result.Files[0].Errors[0].Message))
		}
	}

	return outputValidation(formatter, result)
}

// validateFile decodes one file and runs qgraph.Validate over it. A decode
// failure is reported as a single finding with the loader's code.
func validateFile(path string) FileValidation {
	fv := FileValidation{Path: path, Valid: true}

	q, err := loader.Load(path)
	if err != nil {
		fv.Valid = false
		finding := qgraph.ValidationError{Field: "document", Code: ErrorCode(err), Message: err.Error()}
		var loadErr *loader.LoadError
		if errors.As(err, &loadErr) {
			finding.Message = loadErr.Message
			if loadErr.Pos.IsValid() {
				finding.Field = fmt.Sprintf("line %d, column %d", loadErr.Pos.Line(), loadErr.Pos.Column())
			}
		}
		fv.Errors = []qgraph.ValidationError{finding}
		return fv
	}

	fv.Errors = qgraph.Validate(q)
	fv.Valid = len(fv.Errors) == 0
	return fv
}

func outputValidation(formatter *OutputFormatter, result ValidationResult) error {
	failed := 0
	for _, f := range result.Files {
		if !f.Valid {
			failed++
		}
	}

	if formatter.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    firstFindingCode(result),
				Message: fmt.Sprintf("%d of %d query file(s) invalid", failed, len(result.Files)),
			}
		}
		if err := formatter.encode(resp); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		for _, f := range result.Files {
			if f.Valid {
				fmt.Fprintf(w, "✓ %s\n", f.Path)
				continue
			}
			fmt.Fprintf(w, "✗ %s\n", f.Path)
			for _, e := range f.Errors {
				fmt.Fprintf(w, "  [%s] %s: %s\n", e.Code, e.Field, e.Message)
			}
		}
		if result.Valid {
			fmt.Fprintf(w, "✓ All %d query file(s) valid\n", len(result.Files))
		} else {
			fmt.Fprintf(w, "✗ %d of %d query file(s) invalid\n", failed, len(result.Files))
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d query file(s) invalid", failed))
	}
	return nil
}

func firstFindingCode(result ValidationResult) string {
	for _, f := range result.Files {
		if len(f.Errors) > 0 {
			return f.Errors[0].Code
		}
	}
	return loader.ErrCodeGeneric
}
