package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/minio/minio-go/v7"
)

func TestObjectKey(t *testing.T) {
	got := ObjectKey("ada-lovelace", "1234", "Ada Lovelace-Resume.pdf")
	if got != "resumes/ada-lovelace/1234/Ada Lovelace-Resume.pdf" {
		t.Fatalf("ObjectKey = %q", got)
	}
}

func TestContentDisposition(t *testing.T) {
	if got := ContentDisposition("Ada Lovelace-Resume.pdf"); got != `attachment; filename="Ada Lovelace-Resume.pdf"` {
		t.Fatalf("ascii disposition = %q", got)
	}
	got := ContentDisposition("Zoë-Resume.pdf")
	want := `attachment; filename="Zo_-Resume.pdf"; filename*=UTF-8''Zo%C3%AB-Resume.pdf`
	if got != want {
		t.Fatalf("utf-8 disposition = %q, want %q", got, want)
	}
}

func TestIsNoSuchBucket(t *testing.T) {
	if !IsNoSuchBucket(fmt.Errorf("wrap: %w", minio.ErrorResponse{Code: "NoSuchBucket"})) {
		t.Fatalf("expected minio error to match")
	}
	if IsNoSuchBucket(errors.New("timeout")) || IsNoSuchBucket(nil) {
		t.Fatalf("unexpected match")
	}
}

func TestContentDispositionEscapesNonAttrChars(t *testing.T) {
	got := ContentDisposition("Zoë a=b@c's (CV)-Resume.pdf")
	want := `attachment; filename="Zo_ a=b@c's (CV)-Resume.pdf"; filename*=UTF-8''Zo%C3%AB%20a%3Db%40c%27s%20%28CV%29-Resume.pdf`
	if got != want {
		t.Fatalf("disposition = %q, want %q", got, want)
	}
	for _, c := range []byte("=@'()* ;,/") {
		if isAttrChar(c) {
			t.Fatalf("%q must be percent-encoded", c)
		}
	}
}
