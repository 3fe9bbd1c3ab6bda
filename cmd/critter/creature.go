package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fentz26/critterfocus/internal/creatures"
	"github.com/fentz26/critterfocus/internal/models"
	"github.com/fentz26/critterfocus/internal/ui"
	"github.com/spf13/cobra"
)

var creatureCmd = &cobra.Command{
	Use:     "creature",
	Aliases: []string{"pet"},
	Short:   "Manage creature companions",
}

var creatureCreateCmd = &cobra.Command{
	Use:   "create [category]",
	Short: "Hatch a new creature",
	Long:  "Hatch a new creature. Known categories: " + knownCategoryList() + ". Any other category gets a generic look.",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCreatureCreate),
}

var creatureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List creatures",
	RunE:  withApp(runCreatureList),
}

var creatureShowCmd = &cobra.Command{
	Use:   "show [creature-id]",
	Short: "Show a creature (default: selected)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  withApp(runCreatureShow),
}

var creatureLinkCmd = &cobra.Command{
	Use:   "link [creature-id] [task-id]",
	Short: "Link a task to a creature",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runCreatureLink),
}

var creatureSelectCmd = &cobra.Command{
	Use:   "select [creature-id]",
	Short: "Select the active creature",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCreatureSelect),
}

var creatureInjureCmd = &cobra.Command{
	Use:   "injure [creature-id]",
	Short: "Record an injury on a creature",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCreatureInjure),
}

var creatureHealCmd = &cobra.Command{
	Use:   "heal [creature-id]",
	Short: "Heal a creature",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCreatureHeal),
}

var creatureFeedCmd = &cobra.Command{
	Use:   "feed [creature-id]",
	Short: "Feed a creature",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCreatureFeed),
}

var (
	creatureTask string
	injuryLabel  string
)

func init() {
	creatureCmd.AddCommand(creatureCreateCmd, creatureListCmd, creatureShowCmd, creatureLinkCmd,
		creatureSelectCmd, creatureInjureCmd, creatureHealCmd, creatureFeedCmd)

	creatureCreateCmd.Flags().StringVar(&creatureTask, "task", "", "Task the creature starts tracking")
	creatureInjureCmd.Flags().StringVar(&injuryLabel, "label", "", "Injury description (default from config)")
}

func knownCategoryList() string {
	var names []string
	for _, c := range creatures.KnownCategories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func runCreatureCreate(a *app, cmd *cobra.Command, args []string) error {
	taskID := ""
	if creatureTask != "" {
		id, err := a.resolveTaskID(creatureTask)
		if err != nil {
			return err
		}
		taskID = id
	}

	c, err := a.svc.CreateCreature(args[0], taskID)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s hatched! (%s)\n", ui.IconSparkle, ui.CreatureBadge(c), ui.Key.Render(truncateID(c.ID)))
	fmt.Println(ui.Muted.Render(c.Appearance.Description))
	return nil
}

func runCreatureList(a *app, cmd *cobra.Command, args []string) error {
	list := a.svc.Creatures()
	if len(list) == 0 {
		fmt.Println("No creatures yet. Hatch one with: critter creature create <category>")
		return nil
	}
	selected := ""
	if c, ok := a.svc.Selected(); ok {
		selected = c.ID
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, " \tID\tNAME\tLEVEL\tSTAGE\tHEALTH\tMOOD\tTASKS")
	for i := range list {
		c := &list[i]
		mark := " "
		if c.ID == selected {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%d\t%s\t%s\t%s\t%d\n",
			mark, truncateID(c.ID), c.Appearance.Emoji, truncate(c.Name, 24), c.Level, c.EvolutionStage,
			c.HealthStatus(), c.Mood(), len(c.AssociatedTaskIDs))
	}
	w.Flush()
	return nil
}

func runCreatureShow(a *app, cmd *cobra.Command, args []string) error {
	var c *models.Creature
	if len(args) == 0 {
		sel, ok := a.svc.Selected()
		if !ok {
			return fmt.Errorf("no creature selected: %w", models.ErrNotFound)
		}
		c = sel
	} else {
		id, err := a.resolveCreatureID(args[0])
		if err != nil {
			return err
		}
		if c, err = a.svc.Creature(id); err != nil {
			return err
		}
	}
	printCreature(a, c)
	return nil
}

func printCreature(a *app, c *models.Creature) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", ui.CreatureBadge(c))
	fmt.Fprintf(&b, "%s\n", ui.Muted.Render(c.Appearance.Description))
	fmt.Fprintf(&b, "%s\n", ui.LabelValue("Category", c.Category))
	fmt.Fprintf(&b, "%s\n", ui.LabelValue("Level", fmt.Sprintf("%d (%s)", c.Level, c.EvolutionStage)))
	if c.Level < creatures.MaxLevel {
		need := creatures.XPForNextLevel(c.Level)
		fmt.Fprintf(&b, "%s\n", ui.LabelValue("Experience", fmt.Sprintf("%s %d/%d",
			ui.ProgressBar(float64(c.Experience)/float64(need), 20), c.Experience, need)))
	} else {
		fmt.Fprintf(&b, "%s\n", ui.LabelValue("Experience", fmt.Sprintf("%d (max level)", c.Experience)))
	}
	fmt.Fprintf(&b, "%s\n", ui.LabelValue("Health", ui.Stat(c.Health)+" "+c.HealthStatus()))
	fmt.Fprintf(&b, "%s\n", ui.LabelValue("Happiness", ui.Stat(c.Happiness)+" "+c.Mood()))
	fmt.Fprintf(&b, "%s\n", ui.LabelValue("Traits", strings.Join(c.Appearance.Traits, ", ")))
	fmt.Fprintf(&b, "%s\n", ui.LabelValue("Accessories", strings.Join(c.Appearance.Accessories, ", ")))
	if len(c.Injuries) > 0 {
		fmt.Fprintf(&b, "%s\n", ui.LabelValue("Injuries", ui.Bad.Render(strings.Join(c.Injuries, "; "))))
	}
	fmt.Fprintf(&b, "%s\n", ui.LabelValue("Last fed", c.LastFed.Local().Format(time.RFC1123)))

	var titles []string
	for _, id := range c.AssociatedTaskIDs {
		if t, err := a.svc.Task(id); err == nil {
			titles = append(titles, t.Title)
		} else {
			titles = append(titles, truncateID(id)+" (deleted)")
		}
	}
	if len(titles) > 0 {
		fmt.Fprintf(&b, "%s", ui.LabelValue("Tasks", strings.Join(titles, ", ")))
	}
	fmt.Println(ui.Panel.Render(strings.TrimRight(b.String(), "\n")))
}

func runCreatureLink(a *app, cmd *cobra.Command, args []string) error {
	creatureID, err := a.resolveCreatureID(args[0])
	if err != nil {
		return err
	}
	taskID, err := a.resolveTaskID(args[1])
	if err != nil {
		return err
	}
	c, err := a.svc.AddTaskToCreature(creatureID, taskID)
	if err != nil {
		return err
	}
	fmt.Printf("%s now tracks %d task(s)\n", ui.CreatureBadge(c), len(c.AssociatedTaskIDs))
	return nil
}

func runCreatureSelect(a *app, cmd *cobra.Command, args []string) error {
	id, err := a.resolveCreatureID(args[0])
	if err != nil {
		return err
	}
	if err := a.svc.SelectCreature(id); err != nil {
		return err
	}
	c, err := a.svc.Creature(id)
	if err != nil {
		return err
	}
	fmt.Printf("Selected %s\n", ui.CreatureBadge(c))
	return nil
}

func runCreatureInjure(a *app, cmd *cobra.Command, args []string) error {
	id, err := a.resolveCreatureID(args[0])
	if err != nil {
		return err
	}
	c, err := a.svc.AddInjury(id, injuryLabel)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s is hurt (health %s, happiness %s)\n", ui.IconInjury, ui.CreatureBadge(c), ui.Stat(c.Health), ui.Stat(c.Happiness))
	return nil
}

func runCreatureHeal(a *app, cmd *cobra.Command, args []string) error {
	id, err := a.resolveCreatureID(args[0])
	if err != nil {
		return err
	}
	c, err := a.svc.HealCreature(id)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s feels better (health %s, happiness %s)\n", ui.IconHeart, ui.CreatureBadge(c), ui.Stat(c.Health), ui.Stat(c.Happiness))
	return nil
}

func runCreatureFeed(a *app, cmd *cobra.Command, args []string) error {
	id, err := a.resolveCreatureID(args[0])
	if err != nil {
		return err
	}
	c, err := a.svc.FeedCreature(id)
	if err != nil {
		return err
	}
	fmt.Printf("%s munches happily (happiness %s)\n", ui.CreatureBadge(c), ui.Stat(c.Happiness))
	return nil
}
