// Command rekall queries interval files with the rekall algebra.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gitrdm/gorekall/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
