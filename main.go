package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samzong/fmtgate/cmd"
)

func main() {
	// Cancel the git and formatter subprocesses on Ctrl+C.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd.SetContext(ctx)

	err := cmd.Execute()
	if err == nil {
		return
	}

	if ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "\nOperation cancelled")
		os.Exit(130) // Standard exit code for SIGINT
	}

	var exitErr *cmd.ExitCodeError
	if !errors.As(err, &exitErr) || exitErr.Err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cmd.ExitCode(err))
}
