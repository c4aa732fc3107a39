package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/satishbabariya/juicebatch/cli/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx)
	stop()

	os.Exit(commands.ExitStatus(err))
}
