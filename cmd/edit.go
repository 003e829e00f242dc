package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Elmersong/HealthKey/internal/model"
	"github.com/Elmersong/HealthKey/internal/parser"
	"github.com/Elmersong/HealthKey/internal/timeline"
	"github.com/Elmersong/HealthKey/internal/validate"
)

// Edit command flags.
var (
	editFlagTime     string
	editFlagEnd      string
	editFlagClearEnd bool
	editFlagSatiety  int
	editFlagWater    int
	editFlagIntense  int
	editFlagDepth    int
	editFlagColor    string
	editFlagSeverity int
	editFlagAbnormal bool
	editFlagNormal   bool
	editFlagNote     string
)

// editCmd represents the edit command.
var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit an event's times, extras, or note",
	Long: `Patch an existing event. Only the provided flags change; everything
else keeps its prior value.

Examples:
  healthkey edit 0198a4f2 --time 08:30
  healthkey edit 0198a4f2 --water 300
  healthkey edit 0198a4f2 --end 09:10 --note "睡得不错"`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editFlagTime, "time", "", "New start time (HH:MM, same day)")
	editCmd.Flags().StringVar(&editFlagEnd, "end", "", "New end time (HH:MM, same day)")
	editCmd.Flags().BoolVar(&editFlagClearEnd, "clear-end", false, "Remove the end time, reopening the event")
	editCmd.Flags().IntVar(&editFlagSatiety, "satiety", -1, "Satiety percentage (0-100)")
	editCmd.Flags().IntVar(&editFlagWater, "water", -1, "Water volume in milliliters")
	editCmd.Flags().IntVar(&editFlagIntense, "intensity", -1, "Activity intensity (0-100)")
	editCmd.Flags().IntVar(&editFlagDepth, "sleep-depth", -1, "Sleep depth (0-100)")
	editCmd.Flags().StringVar(&editFlagColor, "color", "", "Excretion color token, e.g. #ffeb3b")
	editCmd.Flags().IntVar(&editFlagSeverity, "severity", -1, "Excretion color severity (0-100, legacy scale)")
	editCmd.Flags().BoolVar(&editFlagAbnormal, "abnormal", false, "Mark the event abnormal")
	editCmd.Flags().BoolVar(&editFlagNormal, "normal", false, "Clear the abnormal flag")
	editCmd.Flags().StringVar(&editFlagNote, "note", "", "Free-text note")

	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	evt, err := findByIDPrefix(args[0])
	if err != nil {
		return err
	}

	var patch timeline.Patch

	if editFlagTime != "" {
		start, err := parser.ParseClock(editFlagTime, evt.Start)
		if err != nil {
			return err
		}
		patch.Start = &start
	}
	if editFlagClearEnd {
		patch.ClearEnd = true
	} else if editFlagEnd != "" {
		end, err := parser.ParseClock(editFlagEnd, evt.Start)
		if err != nil {
			return err
		}
		patch.End = &end
	}

	extra, err := extraFromFlags(cmd)
	if err != nil {
		return err
	}
	patch.Extra = extra

	updated, err := ctx.Timeline.Apply(evt.ID, patch)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(updated)
	}
	ctx.CLIFormatter().Success("已保存 " + updated.ID[:8])
	return nil
}

// extraFromFlags collects the supplied extras flags into a sparse
// patch bag, validating ranges. Returns nil when no extras flag was
// given.
func extraFromFlags(cmd *cobra.Command) (*model.ExtraFields, error) {
	extra := &model.ExtraFields{}
	touched := false

	if cmd.Flags().Changed("satiety") {
		if err := validate.Percent("satiety", editFlagSatiety); err != nil {
			return nil, err
		}
		extra.SatietyPercent = model.Int(editFlagSatiety)
		touched = true
	}
	if cmd.Flags().Changed("water") {
		if err := validate.WaterMl(editFlagWater); err != nil {
			return nil, err
		}
		extra.WaterMl = model.Int(editFlagWater)
		touched = true
	}
	if cmd.Flags().Changed("intensity") {
		if err := validate.Percent("intensity", editFlagIntense); err != nil {
			return nil, err
		}
		extra.IntensityPercent = model.Int(editFlagIntense)
		touched = true
	}
	if cmd.Flags().Changed("sleep-depth") {
		if err := validate.Percent("sleep-depth", editFlagDepth); err != nil {
			return nil, err
		}
		extra.SleepDepthPercent = model.Int(editFlagDepth)
		touched = true
	}
	if cmd.Flags().Changed("color") {
		if err := validate.ColorToken(editFlagColor); err != nil {
			return nil, err
		}
		extra.Color = model.DirectColor(editFlagColor)
		touched = true
	}
	if cmd.Flags().Changed("severity") {
		if err := validate.Percent("severity", editFlagSeverity); err != nil {
			return nil, err
		}
		extra.Color = model.SeverityColor(editFlagSeverity)
		touched = true
	}
	if editFlagAbnormal {
		extra.Abnormal = model.Bool(true)
		touched = true
	}
	if editFlagNormal {
		extra.Abnormal = model.Bool(false)
		touched = true
	}
	if cmd.Flags().Changed("note") {
		if err := validate.Note(editFlagNote); err != nil {
			return nil, err
		}
		extra.Note = model.String(editFlagNote)
		touched = true
	}

	if !touched {
		return nil, nil
	}
	return extra, nil
}

// findByIDPrefix resolves a full or abbreviated event id against
// today's and then the whole timeline.
func findByIDPrefix(idOrPrefix string) (*model.LogEvent, error) {
	if evt, err := ctx.Timeline.Get(idOrPrefix); err == nil {
		return evt, nil
	}
	var match *model.LogEvent
	for _, evt := range ctx.Timeline.All() {
		if len(idOrPrefix) >= 4 && len(evt.ID) >= len(idOrPrefix) &&
			evt.ID[:len(idOrPrefix)] == idOrPrefix {
			if match != nil {
				return nil, errAmbiguousID(idOrPrefix)
			}
			match = evt
		}
	}
	if match == nil {
		return nil, errUnknownID(idOrPrefix)
	}
	return match, nil
}
