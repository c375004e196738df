package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simplici0/homequote/internal/catalog"
)

func (c *cli) catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect rate catalogs",
	}

	var builtin string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the active rate catalog, or a builtin one with --builtin",
		RunE: func(cmd *cobra.Command, args []string) error {
			if builtin != "" {
				cat, err := catalog.Lookup(builtin)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), cat)
			}
			if err := c.setup(cmd.Context()); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), c.wire.Catalog)
		},
	}
	show.Flags().StringVar(&builtin, "builtin", "", "builtin catalog version")

	var file string
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check a catalog document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("catalog file required (-f)")
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			cat, err := catalog.Parse(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog %s is valid\n", cat.Version)
			return nil
		},
	}
	validate.Flags().StringVarP(&file, "file", "f", "", "catalog document")

	cmd.AddCommand(show, validate)
	return cmd
}
