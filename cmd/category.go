package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Elmersong/HealthKey/internal/validate"
)

// categoryCmd groups catalog operations on categories.
var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage event categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories in display order",
	RunE: func(cmd *cobra.Command, args []string) error {
		cats := ctx.Registry.Categories()
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(cats)
		}
		cli := ctx.CLIFormatter()
		for _, cat := range cats {
			marker := ""
			if cat.BuiltIn {
				marker = " (built-in)"
			}
			cli.Printf("  %s  %s  %s%s\n", cat.ID, cat.Label, cat.Color, marker)
		}
		return nil
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add LABEL COLOR",
	Short: "Add a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validate.Label(args[0]); err != nil {
			return err
		}
		if err := validate.ColorToken(args[1]); err != nil {
			return err
		}
		cat, err := ctx.Registry.AddCategory(args[0], args[1])
		if err != nil {
			return err
		}
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(cat)
		}
		ctx.CLIFormatter().Success("已新增分类 " + cat.Label + " (" + cat.ID + ")")
		return nil
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename ID LABEL",
	Short: "Rename a category (built-ins allowed)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validate.Label(args[1]); err != nil {
			return err
		}
		return ctx.Registry.RenameCategory(args[0], args[1])
	},
}

var categoryRestyleCmd = &cobra.Command{
	Use:   "restyle ID COLOR",
	Short: "Change a category's display color (built-ins allowed)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validate.ColorToken(args[1]); err != nil {
			return err
		}
		return ctx.Registry.RestyleCategory(args[0], args[1])
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a non-built-in category",
	Long: `Delete a category. Event types pointing at it are reassigned to the
first remaining category. Built-ins and the last remaining category
cannot be deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ctx.Registry.DeleteCategory(args[0])
	},
}

func init() {
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryRenameCmd)
	categoryCmd.AddCommand(categoryRestyleCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
	rootCmd.AddCommand(categoryCmd)
}
