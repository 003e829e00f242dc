package cmd

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Elmersong/HealthKey/internal/errors"
	"github.com/Elmersong/HealthKey/internal/model"
	"github.com/Elmersong/HealthKey/internal/weather"
)

// Meta command flags.
var (
	metaFlagLat float64
	metaFlagLon float64
)

// metaCmd groups day-attribute pushes: steps, cycle phase, weather.
var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Record today's ambient attributes",
	Long: `Push ambient day attributes into today's metadata record. Each push
merges into the day without clobbering attributes set by other sources.`,
}

var metaStepsCmd = &cobra.Command{
	Use:   "steps COUNT",
	Short: "Record today's step count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := strconv.Atoi(args[0])
		if err != nil || steps < 0 {
			return errors.NewUserErrorWithField("steps", args[0],
				"Invalid step count",
				"Provide a non-negative integer")
		}
		meta, err := ctx.DayMeta.SetSteps(today(), steps)
		if err != nil {
			return err
		}
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(meta)
		}
		ctx.CLIFormatter().Success(formatSteps(steps))
		return nil
	},
}

var metaCycleCmd = &cobra.Command{
	Use:   "cycle PHASE",
	Short: "Record today's cycle phase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := ctx.DayMeta.SetCyclePhase(today(), args[0])
		if err != nil {
			return err
		}
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(meta)
		}
		ctx.CLIFormatter().Success("周期: " + args[0])
		return nil
	},
}

var metaWeatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Fetch and record today's weather",
	Long: `Fetch current conditions from Open-Meteo for the given coordinates
and store them in today's metadata. A failed fetch leaves the day
without weather; it never fails other recording.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fetcher := weather.NewFetcher()
		w, err := fetcher.Current(cmd.Context(), metaFlagLat, metaFlagLon)
		if err != nil {
			ctx.CLIFormatter().Warning("天气获取失败，今日暂无天气数据")
			return nil
		}
		snapshot, err := weather.Snapshot(w)
		if err != nil {
			return err
		}
		meta, err := ctx.DayMeta.SetWeather(today(), snapshot)
		if err != nil {
			return err
		}
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(meta)
		}
		ctx.CLIFormatter().Success("已记录今日天气")
		return nil
	},
}

func init() {
	metaWeatherCmd.Flags().Float64Var(&metaFlagLat, "lat", 0, "Latitude")
	metaWeatherCmd.Flags().Float64Var(&metaFlagLon, "lon", 0, "Longitude")
	metaWeatherCmd.MarkFlagRequired("lat")
	metaWeatherCmd.MarkFlagRequired("lon")

	metaCmd.AddCommand(metaStepsCmd)
	metaCmd.AddCommand(metaCycleCmd)
	metaCmd.AddCommand(metaWeatherCmd)
	rootCmd.AddCommand(metaCmd)
}

func today() string {
	return time.Now().Local().Format(model.DateFormat)
}
