// Command worker 消费异步导出任务。
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ByLCY/papyrus-cv/engine"
	"github.com/ByLCY/papyrus-cv/internal/config"
	"github.com/ByLCY/papyrus-cv/internal/metrics"
	"github.com/ByLCY/papyrus-cv/internal/storage"
	"github.com/ByLCY/papyrus-cv/internal/store"
	"github.com/ByLCY/papyrus-cv/internal/tasks"
	"github.com/ByLCY/papyrus-cv/internal/worker"
	"github.com/ByLCY/papyrus-cv/theme"
)

func main() {
	cfg := config.MustLoad()
	if err := cfg.ValidateWorker(); err != nil {
		log.Fatalf("invalid worker config: %v", err)
	}

	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	db, err := store.Open(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	logger.Info("database connection ready for worker")

	storageClient, err := storage.NewClient(context.Background(), cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	logger.Info("storage client ready", slog.String("bucket", storageClient.Bucket()))

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	th, err := theme.LoadFile(cfg.Render.ThemePath)
	if err != nil {
		log.Fatalf("load theme: %v", err)
	}
	eng, err := engine.New(engine.Options{Theme: th, BaseDir: cfg.Render.FontDir, Logger: logger})
	if err != nil {
		log.Fatalf("init engine: %v", err)
	}

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password},
		asynq.Config{Concurrency: cfg.Worker.Concurrency},
	)

	handler := worker.NewExportTaskHandler(eng, storageClient, store.NewExportRepository(db), redisClient, logger)

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMiddleware())
	mux.Handle(tasks.TypeResumeExport, handler)

	logger.Info("worker service started", slog.String("redis_addr", cfg.Redis.Addr()))
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}
