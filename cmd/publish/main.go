// Package main is the entry point for the publish CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/relkit/publish/internal/cmd"
	"github.com/relkit/publish/internal/cmdtypes"
	oerrors "github.com/relkit/publish/internal/errors"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "Caught interrupt signal")
		cancel()
		os.Exit(oerrors.ExitInterrupted)
	}()

	rootCmd := cmd.NewRootCmd(&cmdtypes.GlobalConfig{})

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Check if the error contains an ExitError with a specific code
		var exitErr *oerrors.ExitError
		if errors.As(err, &exitErr) {
			// Only print if the command layer hasn't already printed it
			if !exitErr.Printed {
				fmt.Fprintln(os.Stderr, err)
			}
			os.Exit(exitErr.Code)
		}
		// Non-ExitError: cobra flag parsing and other unexpected errors
		fmt.Fprintln(os.Stderr, err)
		os.Exit(oerrors.ExitCodeFromError(err))
	}
}
