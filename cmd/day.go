package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Elmersong/HealthKey/internal/aggregate"
	"github.com/Elmersong/HealthKey/internal/model"
	"github.com/Elmersong/HealthKey/internal/parser"
	"github.com/Elmersong/HealthKey/internal/timeline"
)

// dayCmd represents the day command: summary plus detail for a date.
var dayCmd = &cobra.Command{
	Use:     "day [DATE]",
	Aliases: []string{"d"},
	Short:   "Show the summary and detail record for a day",
	Long: `Show a day's per-category summary followed by its detailed record
in chronological order.

Examples:
  healthkey day
  healthkey day yesterday
  healthkey day 2026-08-01`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDay,
}

func init() {
	rootCmd.AddCommand(dayCmd)
}

func runDay(cmd *cobra.Command, args []string) error {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	date, err := parser.ParseDay(arg, time.Now())
	if err != nil {
		return err
	}

	summary := ctx.Aggregator.Summarize(date)
	events := ctx.Timeline.ForDay(date, timeline.Ascending)
	meta, err := ctx.DayMeta.Get(date)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(struct {
			Date    string                      `json:"date"`
			Meta    *model.DayMeta              `json:"meta,omitempty"`
			Summary []aggregate.CategorySummary `json:"summary"`
			Events  []*model.LogEvent           `json:"events"`
		}{date, meta, summary, events})
	}

	cli := ctx.CLIFormatter()
	cli.Title("当日概览 · " + date)

	if meta != nil {
		cli.Muted("天气: " + aggregate.WeatherSummary(decodeWeather(meta)))
		if meta.Steps != nil {
			cli.Muted(formatSteps(*meta.Steps))
		}
		if meta.CyclePhase != "" {
			cli.Muted("周期: " + meta.CyclePhase)
		}
	}

	if len(events) == 0 {
		cli.Muted("这一天没有任何记录。")
		return nil
	}

	cli.PrintSummary(summary, ctx.CategoryIndex())

	cli.Println()
	cli.Title("当日详细记录")
	cats := ctx.CategoryIndex()
	for _, evt := range events {
		def, ok := ctx.Registry.EventType(evt.EventTypeID)
		if !ok {
			continue
		}
		cli.PrintEvent(evt, def, cats[def.CategoryID])
	}
	return nil
}

func formatSteps(steps int) string {
	return fmt.Sprintf("步数: %d 步", steps)
}

// decodeWeather unpacks a day's opaque weather snapshot for rendering;
// an undecodable or absent snapshot renders as "no data".
func decodeWeather(meta *model.DayMeta) *model.Weather {
	if meta == nil || len(meta.Weather) == 0 {
		return nil
	}
	var w model.Weather
	if err := json.Unmarshal(meta.Weather, &w); err != nil {
		return nil
	}
	return &w
}
