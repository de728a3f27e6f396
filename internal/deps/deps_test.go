package deps

import (
	"errors"
	"testing"
)

func TestCheckReportsMissingGit(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })

	lookPath = func(string) (string, error) { return "", errors.New("not found") }
	missing := Check()
	if len(missing) != 1 || missing[0].Name != "git" {
		t.Fatalf("expected git missing, got %+v", missing)
	}
	if InstallHint(missing[0]) == "" {
		t.Fatal("expected an install hint")
	}

	lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	if missing := Check(); len(missing) != 0 {
		t.Fatalf("expected nothing missing, got %+v", missing)
	}
}
