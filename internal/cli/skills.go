package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/andywolf/neovate-desk/internal/cli/wizard"
	"github.com/andywolf/neovate-desk/internal/config"
	"github.com/andywolf/neovate-desk/internal/skills"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Migrate skill directories",
	Long: `Migrate skills from one directory into another.

A source containing SKILL.md is migrated as a single skill named after the
directory. Otherwise every child that does not start with a dot is migrated.
Paths may start with ~.`,
}

var skillsPlanCmd = &cobra.Command{
	Use:   "plan SOURCE TARGET",
	Short: "Preview a migration and report conflicts",
	Args:  cobra.ExactArgs(2),
	RunE:  skillsPlan,
}

var skillsApplyCmd = &cobra.Command{
	Use:   "apply SOURCE TARGET --mode replace|skip",
	Short: "Migrate skills, resolving conflicts with the given mode",
	Args:  cobra.ExactArgs(2),
	RunE:  skillsApply,
}

var skillsMigrateCmd = &cobra.Command{
	Use:   "migrate SOURCE TARGET",
	Short: "Preview, then migrate, asking about conflicts",
	Long: `Preview the migration, then apply it.

When items already exist in the target and no --mode is given (neither as a
flag nor as skills.mode in the settings), migrate asks on the terminal. It
refuses to guess when stdin is not a terminal.

Examples:
  neovate-desk skills migrate ~/.claude/skills ~/.neovate/skills
  neovate-desk skills migrate ./pdf ~/.neovate/skills --mode replace`,
	Args: cobra.ExactArgs(2),
	RunE: skillsMigrate,
}

// Swapped out in tests.
var (
	isInteractive = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	chooseMode    = wizard.ChooseConflictMode
)

func init() {
	rootCmd.AddCommand(skillsCmd)
	skillsCmd.AddCommand(skillsPlanCmd, skillsApplyCmd, skillsMigrateCmd)

	skillsApplyCmd.Flags().String("mode", "", "conflict mode: replace or skip (required)")
	_ = skillsApplyCmd.MarkFlagRequired("mode")
	skillsMigrateCmd.Flags().String("mode", "", "conflict mode: replace or skip")
}

func skillsPlan(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	plan, err := a.svc.PlanSkillsMigration(args[0], args[1])
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), a.cfg.Output.Format, plan, func(w io.Writer) {
		printPlan(w, plan)
	})
}

func skillsApply(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	mode, _ := cmd.Flags().GetString("mode")
	res, err := a.svc.ApplySkillsMigration(args[0], args[1], mode)
	if err != nil {
		if res != nil {
			printResult(cmd.ErrOrStderr(), res)
		}
		return err
	}
	return render(cmd.OutOrStdout(), a.cfg.Output.Format, res, func(w io.Writer) {
		printResult(w, res)
	})
}

func skillsMigrate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	text := a.cfg.Output.Format == config.FormatText

	plan, err := a.svc.PlanSkillsMigration(args[0], args[1])
	if err != nil {
		return err
	}
	if text {
		printPlan(out, plan)
	}
	if len(plan.Items) == 0 {
		if !text {
			return render(out, a.cfg.Output.Format, &skills.Result{}, nil)
		}
		return nil
	}

	mode, _ := cmd.Flags().GetString("mode")
	if mode == "" {
		mode = a.cfg.Skills.Mode
	}
	if mode == "" {
		mode, err = resolveConflictMode(plan)
		if err != nil {
			if errors.Is(err, wizard.ErrCancelled) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Migration cancelled.")
				return nil
			}
			return err
		}
	}

	if text {
		if md, err := skills.ParseMode(mode); err == nil {
			printActions(out, plan, md)
		}
	}

	res, err := a.svc.ApplySkillsMigration(args[0], args[1], mode)
	if err != nil {
		if res != nil {
			printResult(cmd.ErrOrStderr(), res)
		}
		return err
	}
	return render(out, a.cfg.Output.Format, res, func(w io.Writer) {
		printResult(w, res)
	})
}

// resolveConflictMode picks a mode when none was configured. Without
// conflicts the mode does not matter.
func resolveConflictMode(plan *skills.Plan) (string, error) {
	if plan.ConflictCount == 0 {
		return string(skills.ModeReplace), nil
	}
	if !isInteractive() {
		return "", fmt.Errorf("%d items already exist in the target; pass --mode replace or --mode skip", plan.ConflictCount)
	}
	mode, err := chooseMode(plan)
	if err != nil {
		return "", err
	}
	return string(mode), nil
}

func printPlan(w io.Writer, plan *skills.Plan) {
	if len(plan.Items) == 0 {
		fmt.Fprintln(w, "No skills found to migrate.")
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-30s %-5s %s", "NAME", "TYPE", "STATUS")))
	for _, item := range plan.Items {
		kind := "file"
		if item.IsDir {
			kind = "dir"
		}
		status := okStyle.Render("new")
		if item.Exists {
			status = conflictStyle.Render("exists")
		}
		fmt.Fprintf(w, "%-30s %-5s %s\n", item.Name, kind, status)
	}
	fmt.Fprintf(w, "\n%d items, %d conflicts\n", len(plan.Items), plan.ConflictCount)
}

// printActions lists what Apply will do with each planned item under mode.
func printActions(w io.Writer, plan *skills.Plan, mode skills.Mode) {
	fmt.Fprintf(w, "\nMode %s:\n", mode)
	for _, item := range plan.Items {
		action := skills.Decide(item, mode)
		label := fmt.Sprintf("%-8s", action)
		if action != skills.ActionCopy {
			label = conflictStyle.Render(label)
		}
		fmt.Fprintf(w, "  %s %s\n", label, item.Name)
	}
	fmt.Fprintln(w)
}

func printResult(w io.Writer, res *skills.Result) {
	fmt.Fprintf(w, "Copied %d, replaced %d, skipped %d\n", res.Copied, res.Replaced, res.Skipped)
}
