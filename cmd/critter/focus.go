package main

import (
	"fmt"
	"time"

	"github.com/fentz26/critterfocus/internal/engine"
	"github.com/fentz26/critterfocus/internal/models"
	"github.com/fentz26/critterfocus/internal/tui"
	"github.com/fentz26/critterfocus/internal/ui"
	"github.com/spf13/cobra"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Run focus sessions",
}

var focusStartCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Start a focus session without the countdown screen",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runFocusStart),
}

var focusEndCmd = &cobra.Command{
	Use:   "end [task-id]",
	Short: "End the task's active focus session",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runFocusEnd),
}

var focusRunCmd = &cobra.Command{
	Use:   "run [task-id]",
	Short: "Start a session and count it down on screen",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runFocusRun),
}

var (
	focusMinutes  int
	focusWith     []string
	focusCreature string
	focusAbort    bool
	focusProgress float64
)

func init() {
	focusCmd.AddCommand(focusStartCmd, focusEndCmd, focusRunCmd)

	for _, c := range []*cobra.Command{focusStartCmd, focusRunCmd} {
		c.Flags().IntVar(&focusMinutes, "minutes", 0, "Session length in minutes (default from config)")
		c.Flags().StringSliceVar(&focusWith, "with", nil, "Friends focusing with you")
	}
	for _, c := range []*cobra.Command{focusEndCmd, focusRunCmd} {
		c.Flags().StringVar(&focusCreature, "creature", "", "Creature taking part (default: selected creature)")
		c.Flags().Float64Var(&focusProgress, "progress", -1, "Progress to add on completion (default from config)")
	}
	focusEndCmd.Flags().BoolVar(&focusAbort, "abort", false, "Give up on the session")
}

func (a *app) sessionMinutes() int {
	if focusMinutes > 0 {
		return focusMinutes
	}
	return a.cfg.DefaultFocusMinutes
}

func (a *app) focusOutcome(completed bool) engine.FocusOutcome {
	delta := a.cfg.ProgressPerSession
	if focusProgress >= 0 {
		delta = focusProgress
	}
	return engine.FocusOutcome{Completed: completed, ProgressDelta: delta}
}

func runFocusStart(a *app, cmd *cobra.Command, args []string) error {
	taskID, err := a.resolveTaskID(args[0])
	if err != nil {
		return err
	}
	fs, err := a.svc.StartFocusSession(taskID, a.sessionMinutes(), focusWith)
	if err != nil {
		return err
	}
	fmt.Printf("%s Started %d-minute session %s\n", ui.IconFocus, fs.Duration, ui.Key.Render(truncateID(fs.ID)))
	fmt.Println(ui.Muted.Render("End it with: critter focus end " + truncateID(taskID)))
	return nil
}

func runFocusEnd(a *app, cmd *cobra.Command, args []string) error {
	taskID, err := a.resolveTaskID(args[0])
	if err != nil {
		return err
	}
	creatureID, err := a.creatureOrSelected(focusCreature)
	if err != nil {
		return err
	}

	res, err := a.svc.ApplyFocusOutcome(taskID, creatureID, a.focusOutcome(!focusAbort))
	if err != nil {
		return err
	}
	printFocusResult(res)
	return nil
}

func runFocusRun(a *app, cmd *cobra.Command, args []string) error {
	if !tui.IsTTY() {
		return fmt.Errorf("focus run needs a terminal; use 'critter focus start' and 'critter focus end' instead")
	}
	taskID, err := a.resolveTaskID(args[0])
	if err != nil {
		return err
	}
	creatureID, err := a.creatureOrSelected(focusCreature)
	if err != nil {
		return err
	}
	task, err := a.svc.Task(taskID)
	if err != nil {
		return err
	}
	companion := ""
	if creatureID != "" {
		c, err := a.svc.Creature(creatureID)
		if err != nil {
			return err
		}
		companion = c.Appearance.Emoji + " " + c.Name
	}

	fs, err := a.svc.StartFocusSession(taskID, a.sessionMinutes(), focusWith)
	if err != nil {
		return err
	}

	m := tui.NewFocusModel(task.Title, companion, time.Duration(fs.Duration)*time.Minute)
	outcome, err := tui.RunFocus(m)
	if err != nil {
		return fmt.Errorf("focus screen: %w (session %s is still active)", err, truncateID(fs.ID))
	}

	res, err := a.svc.ApplyFocusOutcome(taskID, creatureID, a.focusOutcome(outcome == tui.OutcomeCompleted))
	if err != nil {
		return err
	}
	printFocusResult(res)
	return nil
}

func printFocusResult(res *engine.FocusResult) {
	if res.Session.Outcome == models.OutcomeAborted {
		fmt.Printf("%s Session abandoned after %s\n", ui.IconWarn, sessionLength(res))
		if res.Creature != nil {
			fmt.Printf("  %s %s got hurt: %s (health %s)\n", ui.IconInjury, ui.CreatureBadge(res.Creature), res.Injury, ui.Stat(res.Creature.Health))
		}
		return
	}

	t := res.Task
	fmt.Printf("%s Focused %d minutes on %s  %s +%d (balance %d)\n",
		ui.IconDone, res.Session.Duration, t.Title, ui.IconCoin, res.Session.Duration, res.Currency)
	fmt.Printf("  %s %s/%s %s\n", ui.ProgressBar(t.ProgressRatio(), 20), formatAmount(t.CurrentProgress), formatAmount(t.CompletionGoal), t.UnitLabel())
	if res.Creature == nil {
		return
	}
	line := fmt.Sprintf("  %s +%d xp", ui.CreatureBadge(res.Creature), res.Session.Duration)
	if res.LevelUp {
		line += fmt.Sprintf("  %s level %d", ui.BadgeLevelUp, res.Creature.Level)
	}
	if res.Evolved {
		line += fmt.Sprintf("  %s evolved into %s", ui.IconSparkle, res.Creature.EvolutionStage)
	}
	fmt.Println(line)
	if res.Linked {
		fmt.Println(ui.Muted.Render("  now tracking this task"))
	}
}

func sessionLength(res *engine.FocusResult) string {
	if res.Session.EndTime == nil {
		return "0s"
	}
	return res.Session.EndTime.Sub(res.Session.StartTime).Round(time.Second).String()
}
