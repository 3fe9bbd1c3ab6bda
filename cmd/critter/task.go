package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fentz26/critterfocus/internal/engine"
	"github.com/fentz26/critterfocus/internal/models"
	"github.com/fentz26/critterfocus/internal/tasks"
	"github.com/fentz26/critterfocus/internal/ui"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new task",
	RunE:  withApp(runTaskAdd),
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  withApp(runTaskList),
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runTaskShow),
}

var taskEditCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit a task",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runTaskEdit),
}

var taskProgressCmd = &cobra.Command{
	Use:   "progress [task-id] [value]",
	Short: "Set a task's progress",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runTaskProgress),
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete [task-id]",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runTaskComplete),
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runTaskDelete),
}

var (
	taskTitle      string
	taskDesc       string
	taskDue        string
	taskGoal       float64
	taskUnit       string
	taskCustomUnit string
	taskShare      []string
	taskOpenOnly   bool
)

func init() {
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskShowCmd, taskEditCmd, taskProgressCmd, taskCompleteCmd, taskDeleteCmd)

	for _, c := range []*cobra.Command{taskAddCmd, taskEditCmd} {
		c.Flags().StringVar(&taskTitle, "title", "", "Task title")
		c.Flags().StringVar(&taskDesc, "desc", "", "Task description")
		c.Flags().StringVar(&taskDue, "due", "", "Deadline: YYYY-MM-DD, RFC3339, or a duration from now like 48h")
		c.Flags().Float64Var(&taskGoal, "goal", 0, "Completion goal")
		c.Flags().StringVar(&taskUnit, "unit", string(models.UnitPages), "Measurement unit: hours, exercises, pages, custom")
		c.Flags().StringVar(&taskCustomUnit, "custom-unit", "", "Label for a custom unit")
		c.Flags().StringSliceVar(&taskShare, "share", nil, "Friends to share the task with")
	}
	taskAddCmd.MarkFlagRequired("title")
	taskAddCmd.MarkFlagRequired("due")
	taskAddCmd.MarkFlagRequired("goal")

	taskListCmd.Flags().BoolVar(&taskOpenOnly, "open", false, "Only show open tasks")
}

// parseDeadline accepts a date, an RFC3339 timestamp, or a duration from now.
func parseDeadline(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(d), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t.Add(24*time.Hour - time.Second), nil
	}
	return time.Time{}, fmt.Errorf("invalid deadline %q: %w", s, models.ErrInvalidArgument)
}

func runTaskAdd(a *app, cmd *cobra.Command, args []string) error {
	due, err := parseDeadline(taskDue, time.Now())
	if err != nil {
		return err
	}

	task, err := a.svc.AddTask(tasks.NewTask{
		Title:           taskTitle,
		Description:     taskDesc,
		Deadline:        due,
		CompletionGoal:  taskGoal,
		MeasurementUnit: models.MeasurementUnit(models.NormalizeKey(taskUnit)),
		CustomUnit:      taskCustomUnit,
		SharedWith:      taskShare,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s Created task %s (%s)\n", ui.IconTask, ui.Key.Render(truncateID(task.ID)), task.Title)
	return nil
}

func runTaskList(a *app, cmd *cobra.Command, args []string) error {
	list := a.svc.Tasks()
	if taskOpenOnly {
		open := list[:0]
		for _, t := range list {
			if !t.IsCompleted {
				open = append(open, t)
			}
		}
		list = open
	}
	if len(list) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPROGRESS\tDUE\tSTATE")
	for i := range list {
		t := &list[i]
		progress := fmt.Sprintf("%s/%s %s", formatAmount(t.CurrentProgress), formatAmount(t.CompletionGoal), t.UnitLabel())
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncateID(t.ID), truncate(t.Title, 40), progress, t.Deadline.Local().Format("2006-01-02"), ui.TaskState(t))
	}
	w.Flush()
	return nil
}

func runTaskShow(a *app, cmd *cobra.Command, args []string) error {
	id, err := a.resolveTaskID(args[0])
	if err != nil {
		return err
	}
	t, err := a.svc.Task(id)
	if err != nil {
		return err
	}

	fmt.Println(ui.Heading(ui.IconTask, t.Title))
	fmt.Println(ui.LabelValue("ID", t.ID))
	if t.Description != "" {
		fmt.Println(ui.LabelValue("Description", t.Description))
	}
	fmt.Println(ui.LabelValue("State", ui.TaskState(t)))
	fmt.Println(ui.LabelValue("Progress", fmt.Sprintf("%s %s/%s %s",
		ui.ProgressBar(t.ProgressRatio(), 20), formatAmount(t.CurrentProgress), formatAmount(t.CompletionGoal), t.UnitLabel())))
	fmt.Println(ui.LabelValue("Due", t.Deadline.Local().Format(time.RFC1123)))
	if len(t.SharedWith) > 0 {
		fmt.Println(ui.LabelValue("Shared with", strings.Join(t.SharedWith, ", ")))
	}
	fmt.Println(ui.LabelValue("Created", t.CreatedAt.Local().Format(time.RFC1123)))

	if linked := a.svc.CreaturesForTask(t.ID); len(linked) > 0 {
		var names []string
		for i := range linked {
			names = append(names, ui.CreatureBadge(&linked[i]))
		}
		fmt.Println(ui.LabelValue("Companions", strings.Join(names, ", ")))
	}

	sessions := a.svc.Sessions(t.ID)
	if len(sessions) == 0 {
		return nil
	}
	fmt.Println()
	fmt.Println(ui.Heading(ui.IconFocus, "Focus sessions"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tMINUTES\tOUTCOME")
	for _, fs := range sessions {
		outcome := string(fs.Outcome)
		if fs.IsActive {
			outcome = "active"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", truncateID(fs.ID), fs.StartTime.Local().Format("2006-01-02 15:04"), fs.Duration, outcome)
	}
	w.Flush()
	return nil
}

func runTaskEdit(a *app, cmd *cobra.Command, args []string) error {
	id, err := a.resolveTaskID(args[0])
	if err != nil {
		return err
	}

	var patch tasks.TaskPatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		patch.Title = &taskTitle
	}
	if flags.Changed("desc") {
		patch.Description = &taskDesc
	}
	if flags.Changed("due") {
		due, err := parseDeadline(taskDue, time.Now())
		if err != nil {
			return err
		}
		patch.Deadline = &due
	}
	if flags.Changed("goal") {
		patch.CompletionGoal = &taskGoal
	}
	if flags.Changed("unit") {
		unit := models.MeasurementUnit(models.NormalizeKey(taskUnit))
		patch.MeasurementUnit = &unit
	}
	if flags.Changed("custom-unit") {
		patch.CustomUnit = &taskCustomUnit
	}
	if flags.Changed("share") {
		patch.SharedWith = append([]string{}, taskShare...)
	}

	t, err := a.svc.UpdateTask(id, patch)
	if err != nil {
		return err
	}
	fmt.Printf("Updated task %s (%s)\n", ui.Key.Render(truncateID(t.ID)), t.Title)
	return nil
}

func runTaskProgress(a *app, cmd *cobra.Command, args []string) error {
	id, err := a.resolveTaskID(args[0])
	if err != nil {
		return err
	}
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid progress %q: %w", args[1], models.ErrInvalidArgument)
	}

	t, err := a.svc.UpdateTaskProgress(id, value)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s/%s %s\n", ui.ProgressBar(t.ProgressRatio(), 20), formatAmount(t.CurrentProgress), formatAmount(t.CompletionGoal), t.UnitLabel())
	return nil
}

func runTaskComplete(a *app, cmd *cobra.Command, args []string) error {
	id, err := a.resolveTaskID(args[0])
	if err != nil {
		return err
	}

	res, err := a.svc.CompleteTask(id)
	if err != nil {
		return err
	}
	fmt.Printf("%s Completed %s  %s +%d (balance %d)\n", ui.IconDone, res.Task.Title, ui.IconCoin, tasks.TaskCompletionReward, res.Currency)
	for _, r := range res.Creatures {
		line := fmt.Sprintf("  %s +%d xp", ui.CreatureBadge(r.Creature), engine.TaskCompletionXP)
		if r.LevelUp {
			line += fmt.Sprintf("  %s level %d", ui.BadgeLevelUp, r.Creature.Level)
		}
		if r.Evolved {
			line += fmt.Sprintf("  %s %s", ui.IconSparkle, r.Creature.EvolutionStage)
		}
		fmt.Println(line)
	}
	return nil
}

func runTaskDelete(a *app, cmd *cobra.Command, args []string) error {
	id, err := a.resolveTaskID(args[0])
	if err != nil {
		return err
	}
	if err := a.svc.DeleteTask(id); err != nil {
		return err
	}
	fmt.Printf("Deleted task %s\n", truncateID(id))
	return nil
}
