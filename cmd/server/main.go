// Command server 提供简历预览与导出的 HTTP 服务。
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ByLCY/papyrus-cv/engine"
	"github.com/ByLCY/papyrus-cv/internal/api"
	"github.com/ByLCY/papyrus-cv/internal/config"
	"github.com/ByLCY/papyrus-cv/theme"
)

func main() {
	cfg := config.MustLoad()

	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	th, err := theme.LoadFile(cfg.Render.ThemePath)
	if err != nil {
		log.Fatalf("load theme: %v", err)
	}
	eng, err := engine.New(engine.Options{Theme: th, BaseDir: cfg.Render.FontDir, Logger: logger})
	if err != nil {
		log.Fatalf("init engine: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Error("close asynq client failed", slog.Any("error", err))
		}
	}()

	router, err := api.NewRouter(api.Deps{
		Engine:       eng,
		Enqueuer:     asynqClient,
		Logger:       logger,
		MaxBodyBytes: cfg.API.MaxBodyBytes,
		MaxRetry:     cfg.Worker.MaxRetry,
	})
	if err != nil {
		log.Fatalf("init router: %v", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("api listening", slog.String("addr", srv.Addr), slog.String("theme", th.Name))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start api server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown failed", slog.Any("error", err))
	}
}
