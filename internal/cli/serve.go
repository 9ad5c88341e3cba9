package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/qcypher/internal/cypher"
	"github.com/roach88/qcypher/internal/server"
	"github.com/roach88/qcypher/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr   string
	Record string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler over HTTP",
		Long: `Serve POST /compile, GET /compilations, GET /healthz and GET /metrics.

The server stops gracefully on SIGINT or SIGTERM.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.Record, "record", "", "record compilations in this SQLite database")

	return cmd
}

// newServer builds the HTTP server from the flags. The returned cleanup
// closes the compilation log, if any.
func newServer(opts *ServeOptions, cmd *cobra.Command) (*server.Server, func(), error) {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.Logger(cmd.ErrOrStderr())

	vocab, err := opts.Vocab()
	if err != nil {
		return nil, nil, formatter.Fail(ExitCommandError, ErrCodeVocabulary, err)
	}

	srvOpts := []server.Option{
		server.WithCompiler(cypher.New(vocab)),
		server.WithLogger(logger),
	}
	cleanup := func() {}
	if opts.Record != "" {
		st, err := store.Open(opts.Record, store.WithLogger(logger))
		if err != nil {
			return nil, nil, formatter.Fail(ExitCommandError, ErrCodeStore, err)
		}
		srvOpts = append(srvOpts, server.WithStore(st))
		cleanup = func() { st.Close() }
	}
	return server.New(srvOpts...), cleanup, nil
}

func runServe(ctx context.Context, opts *ServeOptions, cmd *cobra.Command) error {
	srv, cleanup, err := newServer(opts, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := srv.ListenAndServe(ctx, opts.Addr); err != nil {
		formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
		return formatter.Fail(ExitCommandError, ErrCodeServe, err)
	}
	return nil
}
