package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Elmersong/HealthKey/internal/aggregate"
	"github.com/Elmersong/HealthKey/internal/model"
	"github.com/Elmersong/HealthKey/internal/timeline"
)

// todayCmd represents the today command.
var todayCmd = &cobra.Command{
	Use:     "today",
	Aliases: []string{"t"},
	Short:   "Show today's log, newest first",
	RunE:    runToday,
}

func init() {
	rootCmd.AddCommand(todayCmd)
}

func runToday(cmd *cobra.Command, args []string) error {
	date := time.Now().Local().Format(model.DateFormat)
	events := ctx.Timeline.ForDay(date, timeline.Descending)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(events)
	}

	cli := ctx.CLIFormatter()
	meta, err := ctx.DayMeta.Get(date)
	if err != nil {
		return err
	}

	cli.Title("今日打卡记录 · " + date)
	if meta != nil {
		if meta.Steps != nil {
			cli.Muted(formatSteps(*meta.Steps))
		}
		if w := decodeWeather(meta); w != nil {
			cli.Muted(aggregate.WeatherSummary(w))
		}
	}

	if len(events) == 0 {
		cli.Muted("还没有打卡，先从一个最容易的事件开始吧。")
		return nil
	}

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
