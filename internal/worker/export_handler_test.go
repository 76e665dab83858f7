package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"github.com/ByLCY/papyrus-cv/engine"
	"github.com/ByLCY/papyrus-cv/internal/store"
	"github.com/ByLCY/papyrus-cv/internal/tasks"
	"github.com/ByLCY/papyrus-cv/resume"
)

type fakeStorage struct {
	key         string
	contentType string
	attachment  string
	data        []byte
	uploads     int
	err         error
	presignErr  error
}

func (f *fakeStorage) UploadFile(_ context.Context, objectName string, r io.Reader, _ int64, contentType, attachmentName string) (*minio.UploadInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.key, f.contentType, f.attachment, f.data = objectName, contentType, attachmentName, data
	f.uploads++
	return &minio.UploadInfo{Key: objectName, Size: int64(len(data))}, nil
}

func (f *fakeStorage) PresignedURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://minio.local/" + objectKey + "?sig=1", nil
}

// fakeRepo 与数据库一样对 JobID 做唯一约束。
type fakeRepo struct {
	created []*store.Export
}

func (f *fakeRepo) Create(_ context.Context, e *store.Export) error {
	for _, c := range f.created {
		if c.JobID == e.JobID {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	f.created = append(f.created, e)
	return nil
}

func (f *fakeRepo) FindByJobID(_ context.Context, jobID string) (*store.Export, error) {
	for _, c := range f.created {
		if c.JobID == jobID {
			return c, nil
		}
	}
	return nil, store.ErrNotFound
}

type published struct {
	channel string
	message []byte
}

type fakePublisher struct {
	messages []published
	failures int // 前 failures 次发布返回错误
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message any) *redis.IntCmd {
	if f.failures > 0 {
		f.failures--
		return redis.NewIntResult(0, errors.New("redis down"))
	}
	f.messages = append(f.messages, published{channel: channel, message: message.([]byte)})
	return redis.NewIntResult(1, nil)
}

func newHandler(t *testing.T, st *fakeStorage) (*ExportTaskHandler, *fakeRepo, *fakePublisher) {
	t.Helper()
	eng, err := engine.New(engine.Options{})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	repo, pub := &fakeRepo{}, &fakePublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewExportTaskHandler(eng, st, repo, pub, logger), repo, pub
}

func exportTask(t *testing.T) *asynq.Task {
	t.Helper()
	task, err := tasks.NewExportTask(tasks.ExportPayload{
		JobID:         "job-42",
		CorrelationID: "corr-42",
		Document: resume.Document{
			Personal:    resume.Personal{Name: "Ada Lovelace"},
			Summary:     "Mathematician.",
			Experiences: []resume.Experience{{Title: "Analyst", Employer: "Engine Co.", Achievements: []string{"Notes"}}},
		},
	})
	if err != nil {
		t.Fatalf("NewExportTask: %v", err)
	}
	return task
}

func TestProcessTaskUploadsRecordsAndNotifies(t *testing.T) {
	st := &fakeStorage{}
	h, repo, pub := newHandler(t, st)
	if err := h.ProcessTask(context.Background(), exportTask(t)); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}
	if st.key != "resumes/ada-lovelace/job-42/Ada Lovelace-Resume.pdf" {
		t.Fatalf("unexpected object key %q", st.key)
	}
	if st.contentType != "application/pdf" || st.attachment != "Ada Lovelace-Resume.pdf" {
		t.Fatalf("unexpected upload metadata: %q %q", st.contentType, st.attachment)
	}
	if !strings.HasPrefix(string(st.data), "%PDF") {
		t.Fatalf("uploaded data is not a PDF")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one export record, got %d", len(repo.created))
	}
	rec := repo.created[0]
	if rec.JobID != "job-42" || rec.ObjectKey != st.key || rec.Pages != 1 || rec.Bytes != int64(len(st.data)) {
		t.Fatalf("unexpected record %+v", rec)
	}
	if len(pub.messages) != 1 || pub.messages[0].channel != "resume_export:job-42" {
		t.Fatalf("unexpected notifications %+v", pub.messages)
	}
	var msg tasks.ExportNotifyMessage
	if err := json.Unmarshal(pub.messages[0].message, &msg); err != nil {
		t.Fatalf("decode notification: %v", err)
	}
	if msg.Status != "completed" || msg.ObjectKey != st.key || msg.CorrelationID != "corr-42" {
		t.Fatalf("unexpected notification %+v", msg)
	}
	if msg.DownloadURL != "https://minio.local/"+st.key+"?sig=1" {
		t.Fatalf("unexpected download url %q", msg.DownloadURL)
	}
}

// 发布失败后重试：不重复上传、不重复写记录，只重发完成消息。
func TestProcessTaskRetryAfterPublishFailure(t *testing.T) {
	st := &fakeStorage{}
	h, repo, pub := newHandler(t, st)
	pub.failures = 1
	task := exportTask(t)

	err := h.ProcessTask(context.Background(), task)
	if err == nil || !strings.Contains(err.Error(), "redis down") {
		t.Fatalf("first attempt should fail on publish, got %v", err)
	}
	firstKey := st.key

	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("retry should succeed, got %v", err)
	}
	if st.uploads != 1 || st.key != firstKey {
		t.Fatalf("retry must not upload again: uploads=%d key=%q", st.uploads, st.key)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(repo.created))
	}
	if len(pub.messages) != 1 {
		t.Fatalf("expected one completion message, got %+v", pub.messages)
	}
	var msg tasks.ExportNotifyMessage
	if err := json.Unmarshal(pub.messages[0].message, &msg); err != nil {
		t.Fatalf("decode notification: %v", err)
	}
	if msg.Status != "completed" || msg.ObjectKey != firstKey || msg.Pages != 1 {
		t.Fatalf("unexpected notification %+v", msg)
	}
}

// 上传成功但记录失败后重试：对象键不变，覆盖同一对象。
func TestProcessTaskRetryReusesObjectKey(t *testing.T) {
	st := &fakeStorage{}
	h, repo, _ := newHandler(t, st)
	task := exportTask(t)
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}
	repo.created = nil
	firstKey := st.key
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}
	if st.key != firstKey || st.uploads != 2 {
		t.Fatalf("object key changed across attempts: %q vs %q", firstKey, st.key)
	}
}

func TestProcessTaskPresignFailureStillCompletes(t *testing.T) {
	st := &fakeStorage{presignErr: errors.New("presign failed")}
	h, _, pub := newHandler(t, st)
	if err := h.ProcessTask(context.Background(), exportTask(t)); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}
	var msg tasks.ExportNotifyMessage
	if err := json.Unmarshal(pub.messages[0].message, &msg); err != nil {
		t.Fatalf("decode notification: %v", err)
	}
	if msg.Status != "completed" || msg.DownloadURL != "" {
		t.Fatalf("unexpected notification %+v", msg)
	}
}

func TestProcessTaskMissingBucket(t *testing.T) {
	st := &fakeStorage{err: minio.ErrorResponse{Code: "NoSuchBucket", Message: "The specified bucket does not exist"}}
	h, _, _ := newHandler(t, st)
	err := h.ProcessTask(context.Background(), exportTask(t))
	if err == nil || !strings.Contains(err.Error(), "minio bucket does not exist") {
		t.Fatalf("expected missing bucket error, got %v", err)
	}
}

func TestProcessTaskUploadFailure(t *testing.T) {
	st := &fakeStorage{err: errors.New("minio down")}
	h, repo, pub := newHandler(t, st)
	err := h.ProcessTask(context.Background(), exportTask(t))
	if err == nil || !strings.Contains(err.Error(), "minio down") {
		t.Fatalf("expected upload error, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("no record expected on failure")
	}
	// 非最后一次重试时不发布失败通知
	if len(pub.messages) != 0 {
		t.Fatalf("unexpected notifications %+v", pub.messages)
	}
}

func TestProcessTaskBadPayloadSkipsRetry(t *testing.T) {
	h, _, _ := newHandler(t, &fakeStorage{})
	for _, body := range []string{"{", `{"job_id":"  "}`} {
		err := h.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeResumeExport, []byte(body)))
		if !errors.Is(err, asynq.SkipRetry) {
			t.Fatalf("payload %s: expected SkipRetry, got %v", body, err)
		}
	}
}
