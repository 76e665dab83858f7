// Package tasks 定义异步导出任务的类型与载荷，队列生产者与消费者共用。
package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/ByLCY/papyrus-cv/resume"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeResumeExport = "resume:export"
)

// ExportPayload 携带导出所需的完整文档；文档没有持久化标识，随任务一起传递。
type ExportPayload struct {
	JobID         string          `json:"job_id"`
	CorrelationID string          `json:"correlation_id"`
	Document      resume.Document `json:"document"`
}

// NewExportTask 构造一个新的简历导出任务，任务 ID 即 JobID。
func NewExportTask(p ExportPayload, opts ...asynq.Option) (*asynq.Task, error) {
	if p.JobID == "" {
		return nil, fmt.Errorf("tasks: export job id is required")
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	opts = append([]asynq.Option{asynq.TaskID(p.JobID)}, opts...)
	return asynq.NewTask(TypeResumeExport, payload, opts...), nil
}

// ParseExportPayload 解析任务载荷。
func ParseExportPayload(t *asynq.Task) (ExportPayload, error) {
	var p ExportPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("unmarshal %s payload: %w", t.Type(), err)
	}
	return p, nil
}

// NotifyChannel 是导出状态消息的 Redis 频道。
func NotifyChannel(jobID string) string { return "resume_export:" + jobID }

// ExportNotifyMessage 是通过 Redis Pub/Sub 发布的导出状态。
type ExportNotifyMessage struct {
	Status        string   `json:"status"` // completed | error
	JobID         string   `json:"job_id"`
	CorrelationID string   `json:"correlation_id"`
	ObjectKey     string   `json:"object_key,omitempty"`
	DownloadURL   string   `json:"download_url,omitempty"` // 限时下载链接
	FileName      string   `json:"file_name,omitempty"`
	Pages         int      `json:"pages,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
	ErrorMessage  string   `json:"error_message,omitempty"`
}
