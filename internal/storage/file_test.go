package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileKV_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.yaml")

	s, err := OpenFileKV(path)
	if err != nil {
		t.Fatalf("OpenFileKV: %v", err)
	}
	if err := s.Set(ctx, "auth.token", "a.b.c"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "prefs.locale", "fr-FR"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := OpenFileKV(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, ok, _ := reopened.Get(ctx, "auth.token"); !ok || v != "a.b.c" {
		t.Errorf("auth.token = %q, %v", v, ok)
	}
	if err := reopened.Delete(ctx, "auth.token"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	again, err := OpenFileKV(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, ok, _ := again.Get(ctx, "auth.token"); ok {
		t.Error("deleted key should stay deleted after reopen")
	}
	if v, _, _ := again.Get(ctx, "prefs.locale"); v != "fr-FR" {
		t.Errorf("prefs.locale = %q, want fr-FR", v)
	}
}

func TestFileKV_FileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	s, err := OpenFileKV(path)
	if err != nil {
		t.Fatalf("OpenFileKV: %v", err)
	}
	if err := s.Set(context.Background(), "auth.token", "x"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "values:") {
		t.Errorf("unexpected file content: %s", data)
	}
}

func TestOpenFileKV_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	if err := os.WriteFile(path, []byte("values: [not, a, map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFileKV(path); err == nil {
		t.Fatal("expected parse error for corrupt file")
	}
}
