package app

import (
	"context"
	"fmt"
	"net"

	grpcadapter "todoapp/internal/adapters/input/grpc"
	"todoapp/internal/adapters/output/memory"
	redisstore "todoapp/internal/adapters/output/redis"
	"todoapp/internal/config"
	"todoapp/internal/core/ports"
	"todoapp/internal/infrastructure/redisdb"
	"todoapp/internal/logger"
	tasksv1 "todoapp/pkg/grpc/tasks/v1"

	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const redisKeyPrefix = "tasks"

// Remote is the process that serves the remote tasks data source over gRPC.
type Remote struct {
	Config     *config.Config
	Log        *zap.Logger
	GRPCServer *grpc.Server
	Listener   net.Listener
	close      func()
}

func InitRemote(ctx context.Context) (*Remote, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config load error: %w", err)
	}

	log, err := logger.Init(cfg.Logger.Env, "remote")
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	store, closeStore, err := newRemoteStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to init task store", zap.String("store", cfg.Remote.Store), zap.Error(err))
		_ = log.Sync()
		return nil, err
	}

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPC.Port)
	listener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Error("failed to listen grpc", zap.Error(err))
		closeStore()
		_ = log.Sync()
		return nil, err
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(grpcadapter.UnaryLoggingInterceptor(log)))
	tasksv1.RegisterTaskDataServiceServer(grpcServer, grpcadapter.NewTaskServer(store, log))

	return &Remote{
		Config:     cfg,
		Log:        log,
		GRPCServer: grpcServer,
		Listener:   listener,
		close: func() {
			_ = listener.Close()
			closeStore()
			_ = log.Sync()
		},
	}, nil
}

func (r *Remote) Close() {
	if r == nil || r.close == nil {
		return
	}
	r.close()
}

func newRemoteStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (ports.TasksDataSource, func(), error) {
	switch cfg.Remote.Store {
	case config.StoreMemory:
		log.Warn("remote store is in-memory, tasks are lost on restart")
		return memory.NewTaskDataSource(), func() {}, nil
	case config.StoreRedis:
		client, err := redisdb.Connect(ctx, cfg.Remote.RedisURL, log)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewTaskDataSource(client, redisKeyPrefix, log), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown remote store %q", cfg.Remote.Store)
	}
}
