package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	config "github.com/maheshrc27/postpilot/configs"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "postctl",
	Short: "Operator commands for postpilot",
	Long: `postctl runs maintenance tasks against the postpilot database.

Available commands:
  migrate  - Apply pending schema migrations
  dispatch - Run one dispatch pass and print the summary
  due      - List the posts the next pass would publish`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: Failed to load environment variables", err)
		}
		cfg = config.LoadConfig()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(dueCmd)

	dispatchCmd.Flags().BoolVar(&dispatchNoLock, "no-lock", false, "skip the redis dispatch lock")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
