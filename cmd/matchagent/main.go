// Package main provides the entry point for the match agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "matchagent",
	Short: "Job match engine",
	Long:  "matchagent ranks the candidate posting pool against a seeker profile: cheap vector scoring first, contextual analysis for the top scorers, with live progress for pollers.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
