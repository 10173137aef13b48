package app

import (
	"context"
	"fmt"

	"todoapp/internal/adapters/output/postgres"
	"todoapp/internal/adapters/output/remote"
	"todoapp/internal/config"
	"todoapp/internal/core/ports"
	"todoapp/internal/core/repository"
	"todoapp/internal/core/service"
	dbinfra "todoapp/internal/infrastructure/db"
	"todoapp/internal/logger"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client wires the tasks repository over the Postgres local source and the
// gRPC remote source.
type Client struct {
	Config     *config.Config
	Log        *zap.Logger
	Repository *repository.TasksRepository
	Tasks      *service.TaskService
	close      func()
}

func InitClient(ctx context.Context) (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config load error: %w", err)
	}

	log, err := logger.Init(cfg.Logger.Env, "todo")
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	pool, err := dbinfra.ConnectToDB(ctx, cfg.GetDSN(), log)
	if err != nil {
		log.Error("failed to connect to db", zap.Error(err))
		_ = log.Sync()
		return nil, err
	}

	if err := dbinfra.EnsureSchema(ctx, pool); err != nil {
		log.Error("failed to ensure schema", zap.Error(err))
		pool.Close()
		_ = log.Sync()
		return nil, err
	}

	repoFactory := func(q dbinfra.Querier) ports.Repositories {
		return ports.Repositories{Tasks: postgres.NewTaskDataSource(q, nil, log)}
	}
	uow := dbinfra.NewUnitOfWorkManager(pool, log, repoFactory)
	local := postgres.NewTaskDataSource(pool, uow, log)

	conn, err := grpc.NewClient(cfg.Remote.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Error("failed to create grpc client", zap.String("addr", cfg.Remote.Addr), zap.Error(err))
		pool.Close()
		_ = log.Sync()
		return nil, err
	}
	remoteSource := remote.NewTaskDataSource(conn, cfg.Remote.Timeout, log)

	var opts []repository.Option
	if cfg.Repository.StrictRemoteErrors {
		opts = append(opts, repository.WithStrictRemoteErrors())
	}
	repo, err := repository.NewTasksRepository(remoteSource, local, log, opts...)
	if err != nil {
		log.Error("failed to init tasks repository", zap.Error(err))
		_ = conn.Close()
		pool.Close()
		_ = log.Sync()
		return nil, err
	}

	tasks, err := service.NewTaskService(repo, log)
	if err != nil {
		log.Error("failed to init task service", zap.Error(err))
		_ = conn.Close()
		pool.Close()
		_ = log.Sync()
		return nil, err
	}

	return &Client{
		Config:     cfg,
		Log:        log,
		Repository: repo,
		Tasks:      tasks,
		close: func() {
			_ = conn.Close()
			pool.Close()
			_ = log.Sync()
		},
	}, nil
}

func (c *Client) Close() {
	if c == nil || c.close == nil {
		return
	}
	c.close()
}
