package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/prepify/orgraph/internal/ingest"
)

var ingestMaxRows int

var ingestCmd = &cobra.Command{
	Use:   "ingest <csv-file>",
	Short: "Build a graph from a local registry CSV and print statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := ingest.ReadRecords(args[0], ingestMaxRows)
		if err != nil {
			return fmt.Errorf("failed to read records: %w", err)
		}

		snap, report := ingest.BuildGraph(records)
		fmt.Printf("records:       %d\n", len(records))
		fmt.Printf("nodes:         %d\n", snap.NodeCount())
		fmt.Printf("edges:         %d\n", snap.EdgeCount())
		fmt.Printf("connected:     %v\n", snap.Connected())
		fmt.Printf("parse errors:  %d\n", report.Len())

		for _, f := range report.Failures {
			log.Debug("Parse failure", "ico", f.RegistryID, "offset", f.Offset, "error", f.Message)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().IntVar(&ingestMaxRows, "max-rows", 0, "maximum rows to read (0 = no limit)")
	rootCmd.AddCommand(ingestCmd)
}
