package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/qcypher/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB          string
	Fingerprint string
	Source      string
	FailedOnly  bool
	ErrorKind   string
	Limit       int
}

// HistoryEntry is one recorded compilation in command output.
type HistoryEntry struct {
	ID          string `json:"id"`
	Fingerprint string `json:"fingerprint"`
	Source      string `json:"source"`
	Mode        string `json:"mode"`
	Cypher      string `json:"cypher,omitempty"`
	Error       string `json:"error,omitempty"`
	Kind        string `json:"kind,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded compilations",
		Long: `List compilations recorded with compile --record or serve --record,
newest first.

Examples:
  qcypher history --db compilations.db
  qcypher history --db compilations.db --failed
  qcypher history --db compilations.db --kind dangling_edge_reference
  qcypher history --db compilations.db --fingerprint 3f2a... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "compilation log database (required)")
	cmd.Flags().StringVar(&opts.Fingerprint, "fingerprint", "", "only compilations of this query graph")
	cmd.Flags().StringVar(&opts.Source, "source", "", "only compilations from this source")
	cmd.Flags().BoolVar(&opts.FailedOnly, "failed", false, "only failed compilations")
	cmd.Flags().StringVar(&opts.ErrorKind, "kind", "", "only compilations that failed with this error kind")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of entries (0 for all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if opts.Limit < 0 {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, fmt.Errorf("--limit must be non-negative, got %d", opts.Limit))
	}
	// Opening would create an empty database.
	if _, err := os.Stat(opts.DB); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Errorf("database not found: %s", opts.DB))
	}

	st, err := store.Open(opts.DB, store.WithLogger(opts.Logger(cmd.ErrOrStderr())))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err)
	}
	defer st.Close()

	rows, err := st.List(ctx, store.ListFilter{
		Fingerprint: opts.Fingerprint,
		Source:      opts.Source,
		FailedOnly:  opts.FailedOnly,
		ErrorKind:   opts.ErrorKind,
		Limit:       opts.Limit,
	})
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err)
	}

	entries := make([]HistoryEntry, 0, len(rows))
	for _, c := range rows {
		entries = append(entries, HistoryEntry{
			ID:          c.ID,
			Fingerprint: c.Fingerprint,
			Source:      c.Source,
			Mode:        string(c.Mode),
			Cypher:      c.Cypher,
			Error:       c.Error,
			Kind:        c.ErrorKind,
			CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(entries)
	}

	w := formatter.Writer
	if len(entries) == 0 {
		fmt.Fprintln(w, "No compilations recorded.")
		return nil
	}
	for _, e := range entries {
		status := "✓"
		if e.Error != "" {
			status = "✗"
		}
		fmt.Fprintf(w, "%s %s  %s  %-10s  %s  %s\n", status, e.ID, e.CreatedAt, e.Mode, shortFingerprint(e.Fingerprint), e.Source)
		if e.Error != "" {
			fmt.Fprintf(w, "  [%s] %s\n", e.Kind, e.Error)
		} else if opts.Verbose {
			fmt.Fprintf(w, "  %s\n", e.Cypher)
		}
	}
	return nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
