// Package worker 消费异步导出任务：渲染 PDF、上传对象存储、记录结果并发布状态。
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"github.com/ByLCY/papyrus-cv/engine"
	"github.com/ByLCY/papyrus-cv/internal/metrics"
	"github.com/ByLCY/papyrus-cv/internal/storage"
	"github.com/ByLCY/papyrus-cv/internal/store"
	"github.com/ByLCY/papyrus-cv/internal/tasks"
	"github.com/ByLCY/papyrus-cv/layout"
	"github.com/ByLCY/papyrus-cv/resume"
)

const (
	pdfContentType = "application/pdf"
	presignTTL     = 7 * 24 * time.Hour
)

// Storage 是对象存储接口，由 *storage.Client 实现。
type Storage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType, attachmentName string) (*minio.UploadInfo, error)
	PresignedURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error)
}

// Publisher 发布状态消息，由 *redis.Client 实现。
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

var _ Storage = (*storage.Client)(nil)

// ExportTaskHandler 负责消费导出任务。
type ExportTaskHandler struct {
	engine    *engine.Engine
	storage   Storage
	exports   store.ExportRepository
	publisher Publisher
	logger    *slog.Logger
}

// NewExportTaskHandler 创建任务处理器。
func NewExportTaskHandler(
	eng *engine.Engine,
	storage Storage,
	exports store.ExportRepository,
	publisher Publisher,
	logger *slog.Logger,
) *ExportTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportTaskHandler{
		engine:    eng,
		storage:   storage,
		exports:   exports,
		publisher: publisher,
		logger:    logger,
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *ExportTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	payload, err := tasks.ParseExportPayload(t)
	if err == nil && strings.TrimSpace(payload.JobID) == "" {
		err = errors.New("missing job id")
	}
	if err != nil {
		h.logger.Error("unmarshal task payload failed", slog.Any("error", err))
		// 载荷无法解析时重试没有意义
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("job_id", payload.JobID),
	)
	log.Info("starting resume export task")

	defer func() {
		if retErr == nil || !isFinalAttempt(ctx) {
			return
		}
		notify := tasks.ExportNotifyMessage{
			Status:        "error",
			JobID:         payload.JobID,
			CorrelationID: payload.CorrelationID,
			ErrorMessage:  strings.TrimSpace(retErr.Error()),
		}
		if err := h.publish(ctx, notify); err != nil {
			log.Error("publish export error notification failed", slog.Any("error", err))
		}
	}()

	// 之前的尝试已完成上传与记录，只差通知：直接重发完成消息。
	existing, err := h.exports.FindByJobID(ctx, payload.JobID)
	switch {
	case err == nil:
		log.Info("export already recorded, re-publishing completion", slog.String("object_key", existing.ObjectKey))
		return h.publishCompleted(ctx, log, existing)
	case !errors.Is(err, store.ErrNotFound):
		log.Error("lookup export record failed", slog.Any("error", err))
		return err
	}

	start := time.Now()
	out, err := h.engine.Export(payload.Document)
	if err != nil {
		log.Error("render resume failed", slog.Any("error", err))
		return err
	}
	codes := warningCodes(out.Layout.Warnings)
	metrics.ObserveRender(metrics.KindExport, start, len(out.Layout.Pages), codes)

	// 对象键由任务 ID 决定，重试时覆盖同一对象。
	slug := resume.Slug(payload.Document)
	objectKey := storage.ObjectKey(slug, payload.JobID, out.FileName)
	if _, err := h.storage.UploadFile(ctx, objectKey, bytes.NewReader(out.PDF), int64(len(out.PDF)), pdfContentType, out.FileName); err != nil {
		log.Error("upload pdf failed", slog.Any("error", err))
		if storage.IsNoSuchBucket(err) {
			return fmt.Errorf("minio bucket does not exist: %w", err)
		}
		return err
	}

	record := &store.Export{
		JobID:         payload.JobID,
		CorrelationID: payload.CorrelationID,
		CandidateSlug: slug,
		FileName:      out.FileName,
		ObjectKey:     objectKey,
		Pages:         len(out.Layout.Pages),
		Bytes:         int64(len(out.PDF)),
		Warnings:      strings.Join(codes, ","),
	}
	if err := h.exports.Create(ctx, record); err != nil {
		log.Error("record export failed", slog.Any("error", err))
		return err
	}
	return h.publishCompleted(ctx, log, record)
}

func (h *ExportTaskHandler) publishCompleted(ctx context.Context, log *slog.Logger, rec *store.Export) error {
	downloadURL, err := h.storage.PresignedURL(ctx, rec.ObjectKey, presignTTL)
	if err != nil {
		// 没有下载链接时客户端仍可凭对象键获取文件
		log.Warn("generate presigned url failed", slog.Any("error", err))
	}
	notify := tasks.ExportNotifyMessage{
		Status:        "completed",
		JobID:         rec.JobID,
		CorrelationID: rec.CorrelationID,
		ObjectKey:     rec.ObjectKey,
		DownloadURL:   downloadURL,
		FileName:      rec.FileName,
		Pages:         rec.Pages,
		Warnings:      rec.WarningCodes(),
	}
	if err := h.publish(ctx, notify); err != nil {
		log.Error("publish redis notification failed", slog.Any("error", err))
		return err
	}

	log.Info("resume export task completed",
		slog.String("object_key", rec.ObjectKey),
		slog.Int("pages", rec.Pages),
	)
	return nil
}

func (h *ExportTaskHandler) publish(ctx context.Context, notify tasks.ExportNotifyMessage) error {
	data, err := json.Marshal(notify)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := tasks.NotifyChannel(notify.JobID)
	if err := h.publisher.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}

func warningCodes(ws []layout.Warning) []string {
	var codes []string
	for _, w := range ws {
		codes = append(codes, w.Code)
	}
	return codes
}

func isFinalAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
