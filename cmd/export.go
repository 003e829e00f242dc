package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Elmersong/HealthKey/internal/export"
	"github.com/Elmersong/HealthKey/internal/parser"
)

// Export command flags.
var (
	exportFlagOutput string
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:     "export [DATE]",
	Aliases: []string{"x"},
	Short:   "Export a day's events as an iCalendar file",
	Long: `Serialize a day's events into an .ics file (` + export.MediaType + `).
Open events are exported with a 15-minute placeholder duration.

Examples:
  healthkey export
  healthkey export yesterday -o yesterday.ics
  healthkey export 2026-08-01`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlagOutput, "output", "o", "", "Output file (stdout if omitted)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	date, err := parser.ParseDay(arg, time.Now())
	if err != nil {
		return err
	}

	data, err := ctx.Exporter.Day(date)
	if err != nil {
		return err
	}

	if exportFlagOutput == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(exportFlagOutput, data, 0644); err != nil {
		return err
	}
	ctx.CLIFormatter().Success("已导出 " + date + " → " + exportFlagOutput)
	return nil
}
