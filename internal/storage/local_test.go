package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalUploaderWritesFile(t *testing.T) {
	dir := t.TempDir()
	u, err := NewLocalUploader(filepath.Join(dir, "drafts"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	path, err := u.Upload(context.Background(), "email_draft_20240101_101010.txt", "text/plain", strings.NewReader("Hi there"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if filepath.Base(path) != "email_draft_20240101_101010.txt" {
		t.Fatalf("path = %q", path)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "Hi there" {
		t.Fatalf("content = %q, %v", b, err)
	}
}

func TestLocalUploaderKeepsInsideDir(t *testing.T) {
	dir := t.TempDir()
	u, _ := NewLocalUploader(dir)

	path, err := u.Upload(context.Background(), "../../escape.txt", "text/plain", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("file escaped dir: %q", path)
	}
}

func TestApplyPrefix(t *testing.T) {
	if got := applyPrefix(" /drafts/ ", "/a.txt"); got != "drafts/a.txt" {
		t.Fatalf("got %q", got)
	}
	if got := applyPrefix("", "a.txt"); got != "a.txt" {
		t.Fatalf("got %q", got)
	}
}
