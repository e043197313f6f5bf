// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/content-engine/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded pipeline runs",
	Long: `History lists past pipeline runs from the SQLite run store: topic,
stage outcomes, scores and the published URL. Use --export to write the
listed runs to a YAML file.`,
	RunE: runHistoryCmd,
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	exportPath, _ := cmd.Flags().GetString("export")

	cfg := pipelineConfig()
	history, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer history.Close()

	if exportPath != "" {
		if err := history.ExportYAML(exportPath, topic, limit); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "exported to %s\n", exportPath)
		return nil
	}

	runs, err := history.ListRuns(topic, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-12s  %-16s  %-7s  %-7s  %s\n",
		"Run", "Topic", "Started", "Quality", "Slides", "Published")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, r := range runs {
		published := r.PublishedURL
		if published == "" {
			published = "-"
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-12s  %-16s  %-7d  %-7d  %s\n",
			r.ID, r.Topic, r.StartedAt.Format("2006-01-02 15:04"),
			r.QualityScore, r.SlideScore, published)
	}
	fmt.Fprintf(os.Stdout, "\n%d run(s)\n", len(runs))
	return nil
}

func init() {
	historyCmd.Flags().String("topic", "", "filter runs by topic id")
	historyCmd.Flags().Int("limit", 0, "maximum runs to list (0 = default)")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")
	historyCmd.Flags().String("export", "", "write runs to a YAML file instead of listing")

	rootCmd.AddCommand(historyCmd)
}
