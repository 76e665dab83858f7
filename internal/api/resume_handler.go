package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ByLCY/papyrus-cv/engine"
	"github.com/ByLCY/papyrus-cv/internal/api/middleware"
	"github.com/ByLCY/papyrus-cv/internal/metrics"
	"github.com/ByLCY/papyrus-cv/internal/storage"
	"github.com/ByLCY/papyrus-cv/internal/tasks"
	"github.com/ByLCY/papyrus-cv/layout"
	"github.com/ByLCY/papyrus-cv/renderer/preview"
	"github.com/ByLCY/papyrus-cv/resume"
)

// Enqueuer 把任务放入队列，由 *asynq.Client 实现。
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

var _ Enqueuer = (*asynq.Client)(nil)

// ResumeHandler 处理预览、同步导出与异步导出请求。
type ResumeHandler struct {
	engine    *engine.Engine
	validator *Validator
	enqueuer  Enqueuer
	maxBody   int64
	maxRetry  int
}

// defaultMaxBody 是未配置时的请求体上限。
const defaultMaxBody = 8 << 20

// NewResumeHandler 创建处理器；enqueuer 为 nil 时异步导出返回 503。
func NewResumeHandler(eng *engine.Engine, validator *Validator, enqueuer Enqueuer, maxBody int64, maxRetry int) *ResumeHandler {
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	return &ResumeHandler{engine: eng, validator: validator, enqueuer: enqueuer, maxBody: maxBody, maxRetry: maxRetry}
}

type previewResponse struct {
	Preview  *layout.Preview  `json:"preview"`
	SVG      string           `json:"svg"`
	Warnings []layout.Warning `json:"warnings,omitempty"`
}

type jobResponse struct {
	JobID   string `json:"jobId"`
	Queue   string `json:"queue"`
	Channel string `json:"channel"`
}

// readDocument 读取、校验并解码请求体；失败时已写入响应。
func (h *ResumeHandler) readDocument(c *gin.Context) (resume.Document, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			TooLarge(c, "request body too large")
		} else {
			BadRequest(c, "read request body failed")
		}
		return resume.Document{}, false
	}
	doc, err := h.validator.Decode(body)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			Invalid(c, verr.Details)
		} else {
			BadRequest(c, err.Error())
		}
		return resume.Document{}, false
	}
	return doc, true
}

// Preview 返回连续预览。?format=svg 时直接返回 SVG，否则返回视觉树与 SVG。
func (h *ResumeHandler) Preview(c *gin.Context) {
	doc, ok := h.readDocument(c)
	if !ok {
		return
	}
	log := middleware.LoggerFromContext(c)

	start := time.Now()
	out, err := h.engine.Preview(doc)
	if err != nil {
		log.Error("render preview failed", "error", err)
		Internal(c, "render preview failed")
		return
	}
	metrics.ObserveRender(metrics.KindPreview, start, 0, codes(out.Tree.Warnings))

	if c.Query("format") == "svg" {
		c.Data(http.StatusOK, preview.MediaType, out.SVG)
		return
	}
	c.JSON(http.StatusOK, previewResponse{Preview: out.Tree, SVG: string(out.SVG), Warnings: out.Tree.Warnings})
}

// Export 同步生成 PDF 并作为附件返回。
func (h *ResumeHandler) Export(c *gin.Context) {
	doc, ok := h.readDocument(c)
	if !ok {
		return
	}
	log := middleware.LoggerFromContext(c)

	start := time.Now()
	out, err := h.engine.Export(doc)
	if err != nil {
		log.Error("render pdf failed", "error", err)
		Internal(c, "render pdf failed")
		return
	}
	ws := codes(out.Layout.Warnings)
	metrics.ObserveRender(metrics.KindExport, start, len(out.Layout.Pages), ws)
	if len(ws) > 0 {
		log.Warn("pdf exported with degradations", "warnings", ws)
	}

	c.Header("Content-Disposition", storage.ContentDisposition(out.FileName))
	c.Header("X-Resume-Pages", strconv.Itoa(len(out.Layout.Pages)))
	c.Data(http.StatusOK, "application/pdf", out.PDF)
}

// EnqueueExport 把导出放入队列，立即返回 202 与任务 ID。
func (h *ResumeHandler) EnqueueExport(c *gin.Context) {
	if h.enqueuer == nil {
		Unavailable(c, "export queue is not configured")
		return
	}
	doc, ok := h.readDocument(c)
	if !ok {
		return
	}
	log := middleware.LoggerFromContext(c)

	jobID := uuid.NewString()
	task, err := tasks.NewExportTask(tasks.ExportPayload{
		JobID:         jobID,
		CorrelationID: middleware.GetCorrelationID(c),
		Document:      doc,
	}, asynq.MaxRetry(h.maxRetry))
	if err != nil {
		log.Error("build export task failed", "error", err)
		Internal(c, "build export task failed")
		return
	}
	info, err := h.enqueuer.EnqueueContext(c.Request.Context(), task)
	if err != nil {
		log.Error("enqueue export task failed", "error", err)
		Internal(c, "enqueue export task failed")
		return
	}
	log.Info("export task enqueued", "job_id", jobID, "queue", info.Queue)
	c.JSON(http.StatusAccepted, jobResponse{JobID: jobID, Queue: info.Queue, Channel: tasks.NotifyChannel(jobID)})
}

func codes(ws []layout.Warning) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Code)
	}
	return out
}
