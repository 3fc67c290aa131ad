// Package configstore reads and writes the Neovate JSON config document.
//
// Writes are validated before anything touches disk, an existing document is
// backed up to config.json.bak-<unix-seconds>, and the new content is staged
// in config.json.tmp and renamed over the target so the file on disk is
// always either the previous version or the new one.
package configstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/andywolf/neovate-desk/internal/apperr"
	"github.com/andywolf/neovate-desk/internal/fsutil"
	"github.com/andywolf/neovate-desk/internal/logging"
)

// PlaceholderContent is returned by Read when no config exists yet.
const PlaceholderContent = "{\n}\n"

const (
	backupInfix = ".bak-"
	tmpSuffix   = ".tmp"
)

// ReadResult is the outcome of Store.Read.
type ReadResult struct {
	Path    string `json:"path" yaml:"path"`
	Exists  bool   `json:"exists" yaml:"exists"`
	Content string `json:"content" yaml:"content"`
}

// WriteResult is the outcome of Store.Write. BackupPath is nil when there was
// no previous document to back up.
type WriteResult struct {
	Path       string  `json:"path" yaml:"path"`
	BackupPath *string `json:"backup_path" yaml:"backup_path"`
}

// Store manages a single config document on disk.
type Store struct {
	path   string
	now    func() time.Time
	logger logging.Logger
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithClock overrides the clock used for backup timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger for store operations.
func WithLogger(logger logging.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a store for the document at path.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{
		path:   path,
		now:    time.Now,
		logger: logging.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the document path.
func (s *Store) Path() string {
	return s.path
}

// Read returns the document content. A missing document is not an error:
// Exists is false and Content holds PlaceholderContent.
func (s *Store) Read() (*ReadResult, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debugf("config %s not found, returning placeholder", s.path)
			return &ReadResult{Path: s.path, Exists: false, Content: PlaceholderContent}, nil
		}
		return nil, apperr.IO("failed to read config", err)
	}
	return &ReadResult{Path: s.path, Exists: true, Content: string(data)}, nil
}

// Write validates content as JSON and replaces the document with it.
func (s *Store) Write(content string) (*WriteResult, error) {
	if err := Validate(content); err != nil {
		return nil, err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperr.IO("failed to create config directory", err)
	}

	var backupPath *string
	if fsutil.Exists(s.path) {
		backup := s.backupPath()
		if err := fsutil.CopyFile(s.path, backup); err != nil {
			return nil, apperr.IO("failed to back up config", err)
		}
		s.logger.Infof("backed up %s to %s", s.path, backup)
		backupPath = &backup
	}

	tmp := s.path + tmpSuffix
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		return nil, apperr.IO("failed to write temporary config", err)
	}

	// Rename replaces an existing target on POSIX and Windows alike.
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return nil, apperr.IO("failed to replace config", err)
	}

	s.logger.Infof("wrote config %s (%d bytes)", s.path, len(content))
	return &WriteResult{Path: s.path, BackupPath: backupPath}, nil
}

func (s *Store) backupPath() string {
	return fmt.Sprintf("%s%s%d", s.path, backupInfix, s.now().Unix())
}

// Validate reports whether content parses as a JSON value. Any JSON value
// is accepted, not only objects.
func Validate(content string) error {
	var v interface{}
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return apperr.InvalidInput("config is not valid JSON", err)
	}
	return nil
}
