// Package wizard provides interactive prompts for CLI commands.
package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/andywolf/neovate-desk/internal/skills"
)

// ErrCancelled is returned when the user declines to continue.
var ErrCancelled = errors.New("cancelled")

const choiceCancel = "cancel"

// maxListedConflicts caps how many conflicting names the prompt shows.
const maxListedConflicts = 10

// ChooseConflictMode asks how to treat skills that already exist in the
// target directory.
func ChooseConflictMode(plan *skills.Plan) (skills.Mode, error) {
	choice := string(skills.ModeSkip)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(fmt.Sprintf("%d of %d items already exist in the target", plan.ConflictCount, len(plan.Items))).
				Description(formatConflicts(plan)),

			huh.NewSelect[string]().
				Title("What should happen to existing items?").
				Options(
					huh.NewOption("Skip them (keep what is there)", string(skills.ModeSkip)),
					huh.NewOption("Replace them with the source", string(skills.ModeReplace)),
					huh.NewOption("Cancel migration", choiceCancel),
				).
				Value(&choice),
		),
	)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}

	return parseChoice(choice)
}

func parseChoice(choice string) (skills.Mode, error) {
	if choice == choiceCancel {
		return "", ErrCancelled
	}
	return skills.ParseMode(choice)
}

func formatConflicts(plan *skills.Plan) string {
	var names []string
	for _, item := range plan.Items {
		if item.Exists {
			names = append(names, item.Name)
		}
	}
	if len(names) == 0 {
		return "No conflicts"
	}
	extra := 0
	if len(names) > maxListedConflicts {
		extra = len(names) - maxListedConflicts
		names = names[:maxListedConflicts]
	}
	out := strings.Join(names, "\n")
	if extra > 0 {
		out += fmt.Sprintf("\n… and %d more", extra)
	}
	return out
}
