// Command askdoc answers questions about pasted text, images and PDFs.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/custodia-labs/askdoc/internal/adapters/driven/config/env"
	"github.com/custodia-labs/askdoc/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := env.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		// ask has already printed the failure
		if !errors.Is(err, cli.ErrNotAnswered) {
			color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err) //nolint:errcheck
		}
		return 1
	}
	return 0
}
