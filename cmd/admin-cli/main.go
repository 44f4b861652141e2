// Command admin-cli drives the admin console from a terminal. It shares the persisted
// session with the console server, so a user loaded here is the user the server shows.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(openConsole)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			color.Red("Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
