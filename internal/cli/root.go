package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/qcypher/internal/biolink"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Vocabulary string // override file for the label translators
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the qcypher CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "qcypher",
		Short: "qcypher - query graphs to Cypher",
		Long:  "Compile biolink query graphs (JSON, YAML or CUE) into Cypher statements.",
		// main reports errors that commands did not print themselves.
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Vocabulary, "vocabulary", "", "YAML file of category/predicate label overrides")

	// Add subcommands
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// Logger returns a text logger on w. Verbose mode logs at debug level,
// otherwise only warnings and errors are shown.
func (o *RootOptions) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Vocab loads the translators: the built-in overrides, plus the
// --vocabulary file when one is given.
func (o *RootOptions) Vocab() (biolink.Vocabulary, error) {
	if o.Vocabulary == "" {
		return biolink.Default(), nil
	}
	f, err := os.Open(o.Vocabulary)
	if err != nil {
		return biolink.Vocabulary{}, fmt.Errorf("open vocabulary: %w", err)
	}
	defer f.Close()

	vocab, err := biolink.NewVocabulary(f)
	if err != nil {
		return biolink.Vocabulary{}, fmt.Errorf("vocabulary %s: %w", o.Vocabulary, err)
	}
	return vocab, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
