package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRenderMarkdown(t *testing.T) {
	body := "[00:00:00] Hello world\n[00:00:35] Next line"
	got := RenderMarkdown(Metadata{
		Title:    "Standup",
		Source:   "https://youtu.be/abc",
		Backend:  "local",
		Model:    "base",
		Duration: 95*time.Second + 400*time.Millisecond,
	}, body)

	for _, want := range []string{
		"# Standup\n\n",
		"- Source: `https://youtu.be/abc`\n",
		"- Backend: `local`\n",
		"- Model: `base`\n",
		"- Duration: 1m35s\n",
		"\n---\n\n" + body,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Language") {
		t.Errorf("empty language should be omitted:\n%s", got)
	}
	if !strings.HasSuffix(got, body) {
		t.Errorf("body must close the document:\n%s", got)
	}
}

func TestRenderMarkdown_DefaultTitle(t *testing.T) {
	got := RenderMarkdown(Metadata{}, "text")
	if got != "# Transcript\n\n\n---\n\ntext" {
		t.Fatalf("unexpected document %q", got)
	}
}

func TestEmit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	var stdout bytes.Buffer

	doc := "[00:00:00] héllo"
	if err := Emit(&stdout, path, doc); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if stdout.String() != doc+"\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != doc {
		t.Fatalf("file = %q, want %q", data, doc)
	}
}

func TestEmit_StdoutOnly(t *testing.T) {
	var stdout bytes.Buffer
	if err := Emit(&stdout, "", "x"); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if stdout.String() != "x\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestEmit_FileErrorPrintsNothing(t *testing.T) {
	var stdout bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing", "out.txt")
	if err := Emit(&stdout, path, "x"); err == nil {
		t.Fatal("expected error for unwritable path")
	}
	if stdout.Len() != 0 {
		t.Fatalf("stdout should be empty on failure, got %q", stdout.String())
	}
}
