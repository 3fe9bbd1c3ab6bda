package main

import (
	"fmt"

	"github.com/fentz26/critterfocus/internal/ui"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show coins, tasks, sessions, and the selected creature",
	RunE:  withApp(runStatus),
}

func runStatus(a *app, cmd *cobra.Command, args []string) error {
	st := a.svc.Status()

	fmt.Println(ui.Heading(ui.IconSparkle, "critter status"))
	fmt.Println(ui.LabelValue("Coins", fmt.Sprintf("%s %s", ui.IconCoin, ui.Gold.Render(fmt.Sprint(st.Economy.VirtualCurrency)))))
	fmt.Println(ui.LabelValue("Tasks", fmt.Sprintf("%d open, %d completed", st.OpenTasks, st.CompletedTasks)))
	fmt.Println(ui.LabelValue("Vitality", fmt.Sprintf("%s (level %d)", ui.Stat(st.Economy.CreatureHealth), st.Economy.CreatureLevel)))
	fmt.Println(ui.LabelValue("Creatures", st.Creatures))

	for _, fs := range st.ActiveSessions {
		title := truncateID(fs.TaskID)
		if t, err := a.svc.Task(fs.TaskID); err == nil {
			title = t.Title
		}
		fmt.Println(ui.LabelValue("Focusing", fmt.Sprintf("%s %s (%d min, since %s)",
			ui.IconFocus, title, fs.Duration, fs.StartTime.Local().Format("15:04"))))
	}

	if st.Selected != nil {
		fmt.Println()
		printCreature(a, st.Selected)
	}
	return nil
}
