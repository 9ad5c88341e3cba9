package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/roach88/qcypher/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		var exitErr *cli.ExitError
		// Commands print their own errors; anything else (flag parsing,
		// unknown commands) is reported here.
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
