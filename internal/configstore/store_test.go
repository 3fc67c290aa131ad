package configstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andywolf/neovate-desk/internal/apperr"
)

func newTestStore(t *testing.T, ts int64) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".neovate", "config.json")
	clock := func() time.Time { return time.Unix(ts, 0) }
	return NewStore(path, WithClock(clock)), path
}

func backups(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "config.json.bak-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	return matches
}

func TestRead_MissingFile(t *testing.T) {
	s, path := newTestStore(t, 1)

	res, err := s.Read()
	if err != nil {
		t.Fatalf("Read on missing file should not error: %v", err)
	}
	if res.Exists {
		t.Error("Exists = true, want false")
	}
	if res.Content != PlaceholderContent {
		t.Errorf("Content = %q, want %q", res.Content, PlaceholderContent)
	}
	if res.Path != path {
		t.Errorf("Path = %q, want %q", res.Path, path)
	}
	if err := Validate(res.Content); err != nil {
		t.Errorf("placeholder should be valid JSON: %v", err)
	}
}

func TestRead_Unreadable(t *testing.T) {
	dir := t.TempDir()
	// A directory at the config path cannot be read as a file.
	path := filepath.Join(dir, "config.json")
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}

	_, err := NewStore(path).Read()
	if err == nil {
		t.Fatal("Read() expected error for directory at config path")
	}
	if apperr.KindOf(err) != apperr.KindIO {
		t.Errorf("KindOf() = %v, want io", apperr.KindOf(err))
	}
	if !strings.Contains(err.Error(), "failed to read config") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestWriteThenRead_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t, 1700000000)
	content := "{\n  \"model\": \"gpt\",\n  \"plugins\": []\n}\n"

	res, err := s.Write(content)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if res.BackupPath != nil {
		t.Errorf("BackupPath = %q, want nil on first write", *res.BackupPath)
	}

	got, err := s.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !got.Exists {
		t.Error("Exists = false after write")
	}
	if got.Content != content {
		t.Errorf("Content = %q, want %q", got.Content, content)
	}
}

func TestWrite_NoBackupWhenMissing(t *testing.T) {
	s, path := newTestStore(t, 1700000000)

	if _, err := s.Write(`{"a":1}`); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n := len(backups(t, filepath.Dir(path))); n != 0 {
		t.Errorf("got %d backups, want 0", n)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind: %v", err)
	}
}

func TestWrite_BackupOfPreviousContent(t *testing.T) {
	s, path := newTestStore(t, 1700000123)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	previous := `{"old": true}`
	if err := os.WriteFile(path, []byte(previous), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := s.Write(`{"new": true}`)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	wantBackup := filepath.Join(dir, "config.json.bak-1700000123")
	if res.BackupPath == nil || *res.BackupPath != wantBackup {
		t.Fatalf("BackupPath = %v, want %q", res.BackupPath, wantBackup)
	}
	found := backups(t, dir)
	if len(found) != 1 {
		t.Fatalf("got %d backups, want 1", len(found))
	}
	data, err := os.ReadFile(wantBackup)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(data) != previous {
		t.Errorf("backup content = %q, want %q", data, previous)
	}

	current, _ := os.ReadFile(path)
	if string(current) != `{"new": true}` {
		t.Errorf("config content = %q", current)
	}
}

func TestWrite_InvalidJSONLeavesFileUntouched(t *testing.T) {
	s, path := newTestStore(t, 1)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	previous := "{\n  \"keep\": 1\n}\n"
	if err := os.WriteFile(path, []byte(previous), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []string{"", "{", "{\"a\":}", "not json", "{} trailing"}
	for _, content := range tests {
		t.Run(content, func(t *testing.T) {
			_, err := s.Write(content)
			if err == nil {
				t.Fatalf("Write(%q) expected error", content)
			}
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Errorf("KindOf() = %v, want validation", apperr.KindOf(err))
			}
			data, _ := os.ReadFile(path)
			if string(data) != previous {
				t.Errorf("config changed to %q", data)
			}
		})
	}

	if n := len(backups(t, dir)); n != 0 {
		t.Errorf("invalid writes produced %d backups", n)
	}
}

func TestWrite_AcceptsAnyJSONValue(t *testing.T) {
	s, _ := newTestStore(t, 1)
	for _, content := range []string{`[]`, `"text"`, `42`, `null`, `true`} {
		if _, err := s.Write(content); err != nil {
			t.Errorf("Write(%q) unexpected error: %v", content, err)
		}
	}
}
