package main

import (
	"fmt"
	"os"

	"github.com/fentz26/critterfocus/internal/ui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "critter",
	Short: "critter - focus timer with creature companions",
	Long: `critter tracks tasks with measurable goals and runs focus sessions against them.
Finished sessions earn coins and grow your creatures; abandoned ones hurt them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.critterfocus/config.yaml)")

	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(creatureCmd)
	rootCmd.AddCommand(shopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err))
		os.Exit(1)
	}
}
