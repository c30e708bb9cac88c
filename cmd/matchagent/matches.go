package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Inclusist/job-monitor-sub001/internal/store"
)

var (
	matchesConfigPath string
	matchesSeekerID   string
	matchesLimit      int
)

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List a seeker's persisted matches, best first",
	RunE: func(cmd *cobra.Command, args []string) error {
		seekerID, err := uuid.Parse(matchesSeekerID)
		if err != nil {
			return fmt.Errorf("invalid seeker id %q: %w", matchesSeekerID, err)
		}

		cfg, err := loadConfig(matchesConfigPath)
		if err != nil {
			return err
		}

		ctx := context.Background()
		db, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := db.ListMatches(ctx, seekerID, matchesLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No matches yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CANDIDATE\tSEMANTIC\tDEEP\tPRIORITY\tSTATUS")
		for _, r := range records {
			deep := "-"
			if r.DeepScore != nil {
				deep = fmt.Sprintf("%d", *r.DeepScore)
			}
			priority := "-"
			if r.Priority != nil {
				priority = *r.Priority
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
				r.CandidateID, *r.SemanticScore, deep, priority, r.Status)
		}
		return w.Flush()
	},
}

func init() {
	matchesCmd.Flags().StringVar(&matchesConfigPath, "config", "", "Path to JSON config file")
	matchesCmd.Flags().StringVar(&matchesSeekerID, "seeker", "", "Seeker UUID (required)")
	matchesCmd.Flags().IntVar(&matchesLimit, "limit", 25, "Maximum matches to list")
	_ = matchesCmd.MarkFlagRequired("seeker")
	rootCmd.AddCommand(matchesCmd)
}
