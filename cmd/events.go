package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Elmersong/HealthKey/internal/errors"
	"github.com/Elmersong/HealthKey/internal/output"
	"github.com/Elmersong/HealthKey/internal/parser"
)

// closeCmd represents the close command.
var closeCmd = &cobra.Command{
	Use:   "close ID [TIME]",
	Short: "Set the end time of an open event",
	Long: `Close an open event explicitly, outside the tap-pairing window.

Examples:
  healthkey close 0198a4f2
  healthkey close 0198a4f2 07:45
  healthkey close 0198a4f2 "10 minutes ago"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runClose,
}

// deleteCmd represents the delete command.
var deleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete an event permanently",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(closeCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runClose(cmd *cobra.Command, args []string) error {
	evt, err := findByIDPrefix(args[0])
	if err != nil {
		return err
	}

	end := time.Now()
	if len(args) > 1 {
		if t, err := parser.ParseClock(args[1], evt.Start); err == nil {
			end = t
		} else if t, err := parser.ParseInstant(args[1], time.Now()); err == nil {
			end = t
		} else {
			return err
		}
	}

	if err := ctx.Timeline.Close(evt.ID, end); err != nil {
		return err
	}

	closed, err := ctx.Timeline.Get(evt.ID)
	if err != nil {
		return err
	}
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(closed)
	}
	ctx.CLIFormatter().Success("已闭合 " +
		output.FormatInterval(closed.Start, closed.End))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	evt, err := findByIDPrefix(args[0])
	if err != nil {
		return err
	}
	if err := ctx.Timeline.Delete(evt.ID); err != nil {
		return err
	}
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]string{"deleted": evt.ID})
	}
	ctx.CLIFormatter().Success("已删除 " + evt.ID[:8])
	return nil
}

func errUnknownID(id string) error {
	return errors.NewUserErrorWithField("id", id,
		"No event matches that id",
		"Run 'healthkey today' to list recent events")
}

func errAmbiguousID(id string) error {
	return errors.NewUserErrorWithField("id", id,
		"More than one event matches that id prefix",
		"Provide more characters of the id")
}
