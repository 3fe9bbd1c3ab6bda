package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fentz26/critterfocus/internal/audit"
	"github.com/fentz26/critterfocus/internal/ui"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [subject-id]",
	Short: "Show the audit trail, optionally for one task, session, or creature",
	Args:  cobra.MaximumNArgs(1),
	RunE:  withApp(runHistory),
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries to show")
}

func runHistory(a *app, cmd *cobra.Command, args []string) error {
	subject := ""
	if len(args) == 1 {
		subject = args[0]
		if id, err := a.resolveTaskID(subject); err == nil {
			subject = id
		} else if id, err := a.resolveCreatureID(subject); err == nil {
			subject = id
		}
	}

	entries, err := a.svc.History(subject, historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No history yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tSUBJECT\tOUTCOME\tDETAILS")
	for _, e := range entries {
		outcome := ui.Good.Render(e.Outcome)
		if e.Outcome == audit.OutcomeError {
			outcome = ui.Bad.Render(e.Outcome)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Action, truncateID(e.SubjectID), outcome, truncate(e.Details, 50))
	}
	w.Flush()
	return nil
}
