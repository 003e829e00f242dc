package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Elmersong/HealthKey/internal/errors"
	"github.com/Elmersong/HealthKey/internal/output"
	"github.com/Elmersong/HealthKey/internal/timeline"
)

// tapCmd represents the tap command: the "log this now" button.
var tapCmd = &cobra.Command{
	Use:     "tap TYPE",
	Aliases: []string{"log"},
	Short:   "Log an event of the given type now",
	Long: `Log an occurrence of an event type at the current instant.

A repeat tap on the same type closes the interval the first tap opened,
as long as less than 90 minutes elapsed since the start; turn-around
beyond that has to be corrected with 'healthkey edit'.

Examples:
  healthkey tap water
  healthkey tap sleep_start`,
	Args: cobra.ExactArgs(1),
	RunE: runTap,
}

func init() {
	rootCmd.AddCommand(tapCmd)
}

func runTap(cmd *cobra.Command, args []string) error {
	eventTypeID := args[0]

	result, err := ctx.Controller.Tap(eventTypeID)
	if err != nil && !errors.Is(err, errors.ErrPairingWindowExceeded) {
		return err
	}

	// Session state survives across invocations so the next tap can pair.
	if err := ctx.SavePending(); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(result)
	}

	cli := ctx.CLIFormatter()
	def, _ := ctx.Registry.EventType(eventTypeID)
	switch result.Action {
	case timeline.TapOpened:
		cli.Success("已打卡 " + def.Label + " · " + output.FormatClock(result.Event.Start))
	case timeline.TapClosed:
		cli.Success("已闭合 " + def.Label + " · " +
			output.FormatInterval(result.Event.Start, result.Event.End) +
			" (" + output.FormatDuration(result.Event.Duration()) + ")")
	default:
		cli.Warning(result.Advisory)
	}
	return nil
}
