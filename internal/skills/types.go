package skills

import (
	"strings"

	"github.com/andywolf/neovate-desk/internal/apperr"
)

// MarkerFile marks a directory as a single skill.
const MarkerFile = "SKILL.md"

// Mode selects how Apply resolves conflicting items.
type Mode string

const (
	// ModeReplace removes an existing target before copying over it.
	ModeReplace Mode = "replace"
	// ModeSkip leaves an existing target untouched.
	ModeSkip Mode = "skip"
)

// ParseMode accepts exactly "replace" or "skip", ignoring surrounding whitespace.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.TrimSpace(s)); m {
	case ModeReplace, ModeSkip:
		return m, nil
	default:
		return "", apperr.Validation("invalid migration mode %q (only replace/skip are supported)", s)
	}
}

// Action is the per-item decision taken by Apply.
type Action string

const (
	ActionCopy    Action = "copy"
	ActionSkip    Action = "skip"
	ActionReplace Action = "replace"
)

// Item is one unit of migration work.
type Item struct {
	Name   string `json:"name" yaml:"name"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Exists bool   `json:"exists" yaml:"exists"`
	IsDir  bool   `json:"is_dir" yaml:"is_dir"`
}

// Plan is the ordered list of items for a source/target pair.
type Plan struct {
	Items         []Item `json:"items" yaml:"items"`
	ConflictCount int    `json:"conflict_count" yaml:"conflict_count"`
}

// Result counts what Apply did.
type Result struct {
	Copied   int `json:"copied" yaml:"copied"`
	Skipped  int `json:"skipped" yaml:"skipped"`
	Replaced int `json:"replaced" yaml:"replaced"`
}

// Decide returns the action Apply takes for item under mode.
func Decide(item Item, mode Mode) Action {
	switch {
	case !item.Exists:
		return ActionCopy
	case mode == ModeSkip:
		return ActionSkip
	default:
		return ActionReplace
	}
}

func (r *Result) record(a Action) {
	switch a {
	case ActionCopy:
		r.Copied++
	case ActionSkip:
		r.Skipped++
	case ActionReplace:
		r.Replaced++
	}
}
