// Package plugins bundles the built-in Neovate plugin scripts and installs
// them into the application-local data directory.
package plugins

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andywolf/neovate-desk/internal/apperr"
	"github.com/andywolf/neovate-desk/internal/logging"
)

//go:embed builtin/*.js
var builtinFiles embed.FS

// DirName is the subdirectory of the data directory holding installed plugins.
const DirName = "plugins"

// LegacyPrefix marks config entries written before plugins were installed
// to a real path, e.g. "builtin:notify".
const LegacyPrefix = "builtin:"

// Plugin describes one built-in plugin.
type Plugin struct {
	ID string
	// File is the script name, both inside the bundle and on disk.
	File string
}

// builtins is the closed set of plugins shipped in the binary.
var builtins = map[string]Plugin{
	"notify": {ID: "notify", File: "notify.js"},
}

// Lookup returns the built-in plugin with the given id.
func Lookup(id string) (Plugin, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Plugin{}, apperr.Validation("built-in plugin id must not be empty")
	}
	p, ok := builtins[id]
	if !ok {
		return Plugin{}, apperr.Validation("unknown built-in plugin id: %s", id)
	}
	return p, nil
}

// IDs returns the ids of all built-in plugins in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(builtins))
	for id := range builtins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Content returns the bundled script.
func (p Plugin) Content() ([]byte, error) {
	data, err := builtinFiles.ReadFile("builtin/" + p.File)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded plugin %s: %w", p.ID, err)
	}
	return data, nil
}

// LegacyEntry is the config entry older versions wrote for this plugin.
func (p Plugin) LegacyEntry() string {
	return LegacyPrefix + p.ID
}

// MatchesEntry reports whether a config plugins entry refers to this plugin:
// the legacy "builtin:<id>" form, installedPath itself, or any path ending
// in .neovate/plugins/<file>.
func (p Plugin) MatchesEntry(entry, installedPath string) bool {
	if entry == p.LegacyEntry() {
		return true
	}
	normalized := normalizeSeparators(entry)
	if installedPath != "" && normalized == normalizeSeparators(installedPath) {
		return true
	}
	return strings.HasSuffix(normalized, "/.neovate/"+DirName+"/"+p.File)
}

func normalizeSeparators(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

// InstallResult is the outcome of Installer.Install.
type InstallResult struct {
	ID    string `json:"id" yaml:"id"`
	Path  string `json:"path" yaml:"path"`
	Wrote bool   `json:"wrote" yaml:"wrote"`
}

// Status describes a built-in plugin's install state. Enabled is filled in
// by callers that know the config document.
type Status struct {
	ID        string `json:"id" yaml:"id"`
	Path      string `json:"path" yaml:"path"`
	Installed bool   `json:"installed" yaml:"installed"`
	Enabled   bool   `json:"enabled" yaml:"enabled"`
}

// Installer writes built-in plugins under a data directory.
type Installer struct {
	dataDir string
	logger  logging.Logger
}

// NewInstaller creates an installer rooted at dataDir.
func NewInstaller(dataDir string, logger logging.Logger) *Installer {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Installer{dataDir: dataDir, logger: logger}
}

// DestPath returns where the plugin is installed.
func (i *Installer) DestPath(p Plugin) string {
	return filepath.Join(i.dataDir, DirName, p.File)
}

// Install writes the plugin script unless a file already exists at its
// destination, in which case the existing file is left as-is and Wrote is false.
func (i *Installer) Install(id string) (*InstallResult, error) {
	p, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	dest := i.DestPath(p)
	content, err := p.Content()
	if err != nil {
		return nil, apperr.IO("failed to load built-in plugin", err)
	}

	if _, err := os.Stat(dest); err == nil {
		i.logger.Debugf("plugin %s already present at %s", p.ID, dest)
		return &InstallResult{ID: p.ID, Path: dest, Wrote: false}, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return nil, apperr.IO("failed to create plugin directory", err)
	}
	if err := os.WriteFile(dest, content, 0644); err != nil {
		return nil, apperr.IO("failed to write built-in plugin", err)
	}

	i.logger.Infof("installed plugin %s to %s", p.ID, dest)
	return &InstallResult{ID: p.ID, Path: dest, Wrote: true}, nil
}

// List reports every built-in plugin and whether it is installed.
func (i *Installer) List() []Status {
	ids := IDs()
	out := make([]Status, 0, len(ids))
	for _, id := range ids {
		p := builtins[id]
		dest := i.DestPath(p)
		_, err := os.Stat(dest)
		out = append(out, Status{ID: id, Path: dest, Installed: err == nil})
	}
	return out
}
