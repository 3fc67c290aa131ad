package plugins

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andywolf/neovate-desk/internal/apperr"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		wantID   string
		wantKind apperr.Kind
	}{
		{name: "notify", id: "notify", wantID: "notify"},
		{name: "trimmed", id: "  notify\n", wantID: "notify"},
		{name: "empty", id: "", wantKind: apperr.KindValidation},
		{name: "blank", id: "   ", wantKind: apperr.KindValidation},
		{name: "unknown", id: "telemetry", wantKind: apperr.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Lookup(tt.id)
			if tt.wantKind != apperr.KindUnknown {
				if apperr.KindOf(err) != tt.wantKind {
					t.Fatalf("Lookup(%q) error = %v, want kind %v", tt.id, err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup(%q) unexpected error: %v", tt.id, err)
			}
			if p.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", p.ID, tt.wantID)
			}
		})
	}
}

func TestEmbeddedContent(t *testing.T) {
	for _, id := range IDs() {
		p, _ := Lookup(id)
		content, err := p.Content()
		if err != nil {
			t.Fatalf("Content(%s) error: %v", id, err)
		}
		if len(content) == 0 {
			t.Errorf("Content(%s) is empty", id)
		}
	}
}

func TestInstall_WritesOnce(t *testing.T) {
	dataDir := t.TempDir()
	inst := NewInstaller(dataDir, nil)

	first, err := inst.Install("notify")
	if err != nil {
		t.Fatalf("Install() error: %v", err)
	}
	wantPath := filepath.Join(dataDir, "plugins", "notify.js")
	if first.Path != wantPath {
		t.Errorf("Path = %q, want %q", first.Path, wantPath)
	}
	if !first.Wrote {
		t.Error("first Install() Wrote = false, want true")
	}

	p, _ := Lookup("notify")
	want, _ := p.Content()
	got, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("read installed plugin: %v", err)
	}
	if string(got) != string(want) {
		t.Error("installed content differs from embedded content")
	}

	second, err := inst.Install("notify")
	if err != nil {
		t.Fatalf("second Install() error: %v", err)
	}
	if second.Wrote {
		t.Error("second Install() Wrote = true, want false")
	}
}

func TestInstall_KeepsExistingFile(t *testing.T) {
	dataDir := t.TempDir()
	dest := filepath.Join(dataDir, "plugins", "notify.js")
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		t.Fatal(err)
	}
	custom := "// user edited\n"
	if err := os.WriteFile(dest, []byte(custom), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := NewInstaller(dataDir, nil).Install("notify")
	if err != nil {
		t.Fatalf("Install() error: %v", err)
	}
	if res.Wrote {
		t.Error("Wrote = true for pre-existing file")
	}
	got, _ := os.ReadFile(dest)
	if string(got) != custom {
		t.Errorf("existing file overwritten: %q", got)
	}
}

func TestInstall_InvalidID(t *testing.T) {
	dataDir := t.TempDir()
	inst := NewInstaller(dataDir, nil)

	for _, id := range []string{"", "  ", "unknown"} {
		if _, err := inst.Install(id); apperr.KindOf(err) != apperr.KindValidation {
			t.Errorf("Install(%q) error = %v, want validation error", id, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dataDir, "plugins")); !os.IsNotExist(err) {
		t.Error("plugins directory created for invalid id")
	}
}

func TestMatchesEntry(t *testing.T) {
	p, _ := Lookup("notify")
	installed := `C:\Users\me\AppData\Local\com.neovate.desktop\plugins\notify.js`

	tests := []struct {
		entry string
		want  bool
	}{
		{"builtin:notify", true},
		{installed, true},
		{"C:/Users/me/AppData/Local/com.neovate.desktop/plugins/notify.js", true},
		{"/home/me/.neovate/plugins/notify.js", true},
		{`C:\Users\me\.neovate\plugins\notify.js`, true},
		{"/home/me/plugins/notify.js", false},
		{"/home/me/.neovate/plugins/other.js", false},
		{"builtin:other", false},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			if got := p.MatchesEntry(tt.entry, installed); got != tt.want {
				t.Errorf("MatchesEntry(%q) = %v, want %v", tt.entry, got, tt.want)
			}
		})
	}
}

func TestList(t *testing.T) {
	dataDir := t.TempDir()
	inst := NewInstaller(dataDir, nil)

	before := inst.List()
	if len(before) != len(IDs()) {
		t.Fatalf("List() returned %d entries, want %d", len(before), len(IDs()))
	}
	for _, s := range before {
		if s.Installed {
			t.Errorf("%s reported installed before Install()", s.ID)
		}
	}

	if _, err := inst.Install("notify"); err != nil {
		t.Fatal(err)
	}
	for _, s := range inst.List() {
		if s.ID == "notify" && !s.Installed {
			t.Error("notify not reported installed after Install()")
		}
		if !strings.HasPrefix(s.Path, dataDir) {
			t.Errorf("Path %q not under data dir", s.Path)
		}
	}
}
