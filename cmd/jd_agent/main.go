// Package main provides the entry point for the JD Agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jd_agent",
	Short: "Interview preparation miner",
	Long:  "JD Agent mines and ranks interview preparation content for a job role, then generates a deduplicated, relevance-ranked question set grounded in that content.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
