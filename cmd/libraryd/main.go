// Command libraryd runs the library circulation service and its maintenance tasks.
//
//	libraryd serve          start the HTTP API
//	libraryd migrate up     apply schema migrations
//	libraryd migrate down   revert schema migrations
//	libraryd create-admin   create an administrator account
//
// All commands read their configuration from the environment and an optional .env file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
