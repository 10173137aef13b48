// Command todo manages tasks mirrored between the local database and the
// remote tasks service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"todoapp/internal/cli"
	"todoapp/internal/infrastructure/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	factory := func(ctx context.Context) (*cli.Backend, error) {
		client, err := app.InitClient(ctx)
		if err != nil {
			return nil, err
		}
		return &cli.Backend{Tasks: client.Tasks, Log: client.Log, Close: client.Close}, nil
	}

	code := cli.NewDispatcher(factory).Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
