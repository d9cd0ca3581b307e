package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFile_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	if _, found, err := f.Get(ctx, "elomind_token"); err != nil || found {
		t.Fatalf("expected absent key, got found=%v err=%v", found, err)
	}

	if err := f.Set(ctx, "elomind_token", "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, found, err := f.Get(ctx, "elomind_token")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found || v != "abc" {
		t.Fatalf("expected (abc, true), got (%q, %v)", v, found)
	}

	if err := f.Delete(ctx, "elomind_token"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := f.Get(ctx, "elomind_token"); found {
		t.Fatalf("expected key deleted")
	}
}

func TestFile_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := f.Set(ctx, "elomind_email", "ana@example.com"); err != nil {
		t.Fatalf("set: %v", err)
	}

	reopened, err := NewFile(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, found, err := reopened.Get(ctx, "elomind_email")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if !found || v != "ana@example.com" {
		t.Fatalf("expected persisted value, got (%q, %v)", v, found)
	}
}

func TestFile_DeleteMissingKeyIsNoop(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	if err := f.Delete(ctx, "never-set"); err != nil {
		t.Fatalf("delete missing key: %v", err)
	}
	// A pure delete on a fresh store must not create the file.
	if _, err := os.Stat(filepath.Join(dir, fileName)); !os.IsNotExist(err) {
		t.Fatalf("expected no session file, stat err = %v", err)
	}
}

func TestFile_FileModeIsPrivate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := f.Set(ctx, "elomind_token", "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, fileName))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600, got %o", perm)
	}
}
