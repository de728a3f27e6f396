package notes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseProgress(t *testing.T) {
	st := Parse("- [x] task1\n- [ ] task2\n- [x] task3")
	if st.Progress == nil || st.Progress.Done != 2 || st.Progress.Total != 3 {
		t.Fatalf("expected 2/3, got %+v", st.Progress)
	}
}

func TestParseProgressVariants(t *testing.T) {
	content := "## Status\n  - [X] upper\n* [ ] star\n- [] not an item\n-[x] nor this\n"
	st := Parse(content)
	if st.Progress == nil || st.Progress.Done != 1 || st.Progress.Total != 2 {
		t.Fatalf("expected 1/2, got %+v", st.Progress)
	}
}

func TestParseWithoutChecklist(t *testing.T) {
	if st := Parse("# just notes\n"); st.Progress != nil {
		t.Fatalf("expected nil progress, got %+v", st.Progress)
	}
}

func TestParsePurpose(t *testing.T) {
	st := Parse("# Worktree: x\n## Purpose\n<!-- hint -->\n\nImplement OAuth2 authentication\n\n## Status\n")
	if st.Purpose != "Implement OAuth2 authentication" {
		t.Fatalf("purpose mismatch: %q", st.Purpose)
	}

	st = Parse("## Purpose\n<!-- What this worktree is for -->\n\n## Status\n- [ ] a\n")
	if st.Purpose != "" {
		t.Fatalf("expected empty purpose, got %q", st.Purpose)
	}
}

func TestReadMissingFile(t *testing.T) {
	if st := Read(t.TempDir(), ""); st != nil {
		t.Fatalf("expected nil for missing file, got %+v", st)
	}
	if p := ReadProgress(t.TempDir(), ""); p != nil {
		t.Fatalf("expected nil progress, got %+v", p)
	}
}

func TestEnsureWritesTemplateOnce(t *testing.T) {
	dir := t.TempDir()
	path, created, err := Ensure(dir, "", "feat/a")
	if err != nil || !created {
		t.Fatalf("ensure: created=%v err=%v", created, err)
	}
	if path != filepath.Join(dir, DefaultFile) {
		t.Fatalf("path mismatch: %s", path)
	}
	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "# Worktree: feat/a\n") {
		t.Fatalf("template not written: %q", data)
	}

	st := Read(dir, "")
	if st == nil || st.Progress == nil || st.Progress.Done != 0 || st.Progress.Total != 3 {
		t.Fatalf("template progress mismatch: %+v", st)
	}

	if err := os.WriteFile(path, []byte("- [x] mine\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, created, err := Ensure(dir, "", "feat/a"); err != nil || created {
		t.Fatalf("existing file overwritten: created=%v err=%v", created, err)
	}
	if p := ReadProgress(dir, ""); p == nil || p.Done != 1 || p.Total != 1 {
		t.Fatalf("progress mismatch: %+v", p)
	}
}
