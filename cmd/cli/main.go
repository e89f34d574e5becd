package main

import (
	"fmt"
	"github.com/joho/godotenv"
	"github.com/myrjola/agrolens/cmd/cli/advise"
	"github.com/myrjola/agrolens/cmd/cli/diagnose"
	"github.com/spf13/cobra"
	"os"
)

func init() {
	if err := godotenv.Load(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
	}
	rootCmd.AddGroup(diagnose.Group)
	rootCmd.AddCommand(diagnose.Leaf)
	rootCmd.AddCommand(diagnose.Capture)
	rootCmd.AddCommand(diagnose.Cameras)
	rootCmd.AddGroup(advise.Group)
	rootCmd.AddCommand(advise.Forecast)
	rootCmd.AddCommand(advise.Chat)
}

var rootCmd = &cobra.Command{
	Use:  "agrolens-cli",
	Long: `Command line utilities for AgroLens leaf diagnosis and farming advice`,
	Run: func(cmd *cobra.Command, args []string) {
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
