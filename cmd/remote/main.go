package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"todoapp/internal/infrastructure/app"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	remote, err := app.InitRemote(ctx)
	if err != nil {
		fmt.Printf("app init error: %v\n", err)
		os.Exit(1)
	}
	defer remote.Close()

	go func() {
		remote.Log.Info("grpc server started", zap.String("addr", remote.Listener.Addr().String()))
		if err := remote.GRPCServer.Serve(remote.Listener); err != nil {
			remote.Log.Error("grpc server stopped", zap.Error(err))
		}
	}()

	remote.Log.Info("remote tasks service is starting",
		zap.String("env", remote.Config.Logger.Env),
		zap.String("store", remote.Config.Remote.Store),
	)

	<-ctx.Done()
	remote.Log.Info("shutting down server")

	remote.GRPCServer.GracefulStop()
	remote.Log.Info("server stopped")
}
