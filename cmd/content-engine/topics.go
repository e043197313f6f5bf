// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/content-engine/internal/research"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the configured topics",
	Long: `Topics lists the entries of the topics file. Summary topics span the
listed member topics and produce a weekly digest instead of standalone
research.`,
	RunE: runTopicsCmd,
}

func runTopicsCmd(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	reg, err := research.LoadTopics(cfg.Research.TopicsFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%-16s  %-28s  %s\n", "ID", "Name", "Keywords")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, t := range reg.Topics {
		id := t.ID
		if t.IsSummary {
			id += " *"
		}
		fmt.Fprintf(os.Stdout, "%-16s  %-28s  %s\n", id, t.Name, strings.Join(t.Keywords, ", "))
	}
	fmt.Fprintf(os.Stdout, "\n%d topic(s), * = weekly summary\n", len(reg.Topics))
	return nil
}

func init() {
	rootCmd.AddCommand(topicsCmd)
}
