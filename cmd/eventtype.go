package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Elmersong/HealthKey/internal/validate"
)

// typeCmd groups catalog operations on event-type definitions.
var typeCmd = &cobra.Command{
	Use:   "type",
	Short: "Manage event types",
}

var typeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List event types grouped by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		defs := ctx.Registry.EventTypes()
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(defs)
		}
		cli := ctx.CLIFormatter()
		for _, cat := range ctx.Registry.Categories() {
			cli.Title(cat.Label)
			for _, def := range defs {
				if def.CategoryID != cat.ID {
					continue
				}
				marker := ""
				if def.BuiltIn {
					marker = " (built-in)"
				}
				cli.Printf("  %s  %s%s\n", def.ID, def.Label, marker)
			}
		}
		return nil
	},
}

var typeAddCmd = &cobra.Command{
	Use:   "add LABEL CATEGORY",
	Short: "Add an event type to a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validate.Label(args[0]); err != nil {
			return err
		}
		def, err := ctx.Registry.AddEventType(args[0], args[1])
		if err != nil {
			return err
		}
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(def)
		}
		ctx.CLIFormatter().Success("已新增事件类型 " + def.Label + " (" + def.ID + ")")
		return nil
	},
}

var typeRelabelCmd = &cobra.Command{
	Use:   "relabel ID LABEL",
	Short: "Rename an event type (built-ins allowed)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validate.Label(args[1]); err != nil {
			return err
		}
		return ctx.Registry.RelabelEventType(args[0], args[1])
	},
}

var typeRecategorizeCmd = &cobra.Command{
	Use:   "recategorize ID CATEGORY",
	Short: "Move an event type to another category (built-ins allowed)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ctx.Registry.RecategorizeEventType(args[0], args[1])
	},
}

var typeDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a non-built-in event type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ctx.Registry.DeleteEventType(args[0])
	},
}

func init() {
	typeCmd.AddCommand(typeListCmd)
	typeCmd.AddCommand(typeAddCmd)
	typeCmd.AddCommand(typeRelabelCmd)
	typeCmd.AddCommand(typeRecategorizeCmd)
	typeCmd.AddCommand(typeDeleteCmd)
	rootCmd.AddCommand(typeCmd)
}
