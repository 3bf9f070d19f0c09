// Command pagesearch indexes a tree of content pages and searches it.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/pagesearch/internal/adapters/driving/cli"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(newServices)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
