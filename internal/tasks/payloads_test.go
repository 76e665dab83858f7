package tasks

import (
	"testing"

	"github.com/ByLCY/papyrus-cv/resume"
)

func TestExportTaskCarriesDocument(t *testing.T) {
	in := ExportPayload{
		JobID:         "job-1",
		CorrelationID: "corr-1",
		Document:      resume.Document{Personal: resume.Personal{Name: "Ada"}, Summary: "hi"},
	}
	task, err := NewExportTask(in)
	if err != nil {
		t.Fatalf("NewExportTask: %v", err)
	}
	if task.Type() != TypeResumeExport {
		t.Fatalf("unexpected type %q", task.Type())
	}
	out, err := ParseExportPayload(task)
	if err != nil {
		t.Fatalf("ParseExportPayload: %v", err)
	}
	if out.JobID != "job-1" || out.Document.Personal.Name != "Ada" || out.Document.Summary != "hi" {
		t.Fatalf("payload mismatch: %+v", out)
	}
}

func TestExportTaskRequiresJobID(t *testing.T) {
	if _, err := NewExportTask(ExportPayload{}); err == nil {
		t.Fatalf("expected error without job id")
	}
}

func TestNotifyChannel(t *testing.T) {
	if got := NotifyChannel("abc"); got != "resume_export:abc" {
		t.Fatalf("NotifyChannel = %q", got)
	}
}
