// Package skills plans and applies one-shot migrations of skill directories
// from a source location to a target location.
//
// A migration runs in two independent calls. Plan scans the source and
// reports which items would land on an occupied target. Apply rescans from
// scratch and copies, skips or replaces each item according to the chosen
// mode. Nothing is carried between the two calls.
package skills

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/andywolf/neovate-desk/internal/apperr"
	"github.com/andywolf/neovate-desk/internal/fsutil"
	"github.com/andywolf/neovate-desk/internal/logging"
	"github.com/andywolf/neovate-desk/internal/paths"
)

// Options tunes container-mode scanning.
type Options struct {
	// Exclude holds doublestar patterns matched against child names.
	// Dot-prefixed children are always skipped regardless of Exclude.
	Exclude []string
}

// Validate checks that every exclude pattern is well formed.
func (o Options) Validate() error {
	for _, pattern := range o.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return apperr.Validation("invalid exclude pattern: %s", pattern)
		}
	}
	return nil
}

func (o Options) excluded(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, pattern := range o.Exclude {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// Migrator plans and applies skills migrations.
type Migrator struct {
	opts   Options
	logger logging.Logger
}

// NewMigrator creates a Migrator.
func NewMigrator(opts Options, logger logging.Logger) *Migrator {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Migrator{opts: opts, logger: logger}
}

// Plan scans source and computes the items to migrate into target.
func (m *Migrator) Plan(source, target string) (*Plan, error) {
	src, dst, err := resolvePair(source, target)
	if err != nil {
		return nil, err
	}
	if err := checkSource(src); err != nil {
		return nil, err
	}

	items, err := m.scan(src, dst)
	if err != nil {
		return nil, err
	}
	plan := newPlan(items)
	m.logger.Debugf("planned %d skills items from %s to %s (%d conflicts)", len(plan.Items), src, dst, plan.ConflictCount)
	return plan, nil
}

// Apply migrates source into target. mode must be "replace" or "skip".
// The plan is recomputed from the current source contents. On failure the
// returned Result counts the items committed before the error; there is no
// rollback.
func (m *Migrator) Apply(source, target, mode string) (*Result, error) {
	src, dst, err := resolvePair(source, target)
	if err != nil {
		return nil, err
	}
	if err := checkSource(src); err != nil {
		return nil, err
	}
	md, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return nil, apperr.IO("failed to create target directory", err)
	}

	items, err := m.scan(src, dst)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, item := range items {
		action := Decide(item, md)
		if err := m.applyItem(item, action); err != nil {
			m.logger.Warningf("skills migration stopped at %s after copied=%d skipped=%d replaced=%d",
				item.Name, result.Copied, result.Skipped, result.Replaced)
			return result, err
		}
		result.record(action)
	}

	m.logger.Infof("migrated skills from %s to %s: copied=%d skipped=%d replaced=%d",
		src, dst, result.Copied, result.Skipped, result.Replaced)
	return result, nil
}

func (m *Migrator) applyItem(item Item, action Action) error {
	switch action {
	case ActionSkip:
		m.logger.Debugf("skip %s: target exists", item.Name)
		return nil
	case ActionReplace:
		m.logger.Debugf("replace %s", item.Name)
		if err := fsutil.RemovePath(item.Target); err != nil {
			return err
		}
	default:
		m.logger.Debugf("copy %s", item.Name)
	}

	if item.IsDir {
		return fsutil.CopyDir(item.Source, item.Target)
	}
	return fsutil.CopyFile(item.Source, item.Target)
}

// scan lists the items for src. A source holding SKILL.md is one item named
// after the source directory; otherwise each visible child is an item.
func (m *Migrator) scan(src, dst string) ([]Item, error) {
	if fsutil.IsFile(filepath.Join(src, MarkerFile)) {
		name := filepath.Base(src)
		if name == "" || name == "." || name == string(filepath.Separator) {
			return nil, apperr.Validation("cannot determine source directory name: %s", src)
		}
		target := filepath.Join(dst, name)
		return []Item{{
			Name:   name,
			Source: src,
			Target: target,
			Exists: fsutil.Exists(target),
			IsDir:  true,
		}}, nil
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, apperr.IO("failed to read source directory", err)
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if m.opts.excluded(name) {
			continue
		}
		target := filepath.Join(dst, name)
		items = append(items, Item{
			Name:   name,
			Source: filepath.Join(src, name),
			Target: target,
			Exists: fsutil.Exists(target),
			IsDir:  entry.IsDir(),
		})
	}
	return items, nil
}

func checkSource(src string) error {
	if !fsutil.Exists(src) {
		return apperr.Validation("source directory does not exist: %s", src)
	}
	if !fsutil.IsDir(src) {
		return apperr.Validation("source path is not a directory: %s", src)
	}
	return nil
}

func newPlan(items []Item) *Plan {
	plan := &Plan{Items: items}
	for _, item := range items {
		if item.Exists {
			plan.ConflictCount++
		}
	}
	return plan
}

// resolvePair trims, tilde-expands and absolutizes both paths.
func resolvePair(source, target string) (string, string, error) {
	src, err := resolvePath(source)
	if err != nil {
		return "", "", err
	}
	dst, err := resolvePath(target)
	if err != nil {
		return "", "", err
	}
	return src, dst, nil
}

func resolvePath(p string) (string, error) {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		return "", apperr.Validation("path must not be empty")
	}
	expanded, err := paths.ExpandTilde(trimmed)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", apperr.IO("failed to resolve path", err)
	}
	return abs, nil
}
