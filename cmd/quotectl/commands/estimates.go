package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *cli) estimatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "estimates",
		Aliases: []string{"est"},
		Short:   "Manage saved estimates",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.Context())
		},
	}

	cmd.AddCommand(
		c.estimatesListCmd(),
		c.estimatesShowCmd(),
		c.estimatesSaveCmd(),
		c.estimatesRecomputeCmd(),
		c.estimatesDeleteCmd(),
	)
	return cmd
}

func (c *cli) estimatesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved estimates with totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := c.wire.Service.List(cmd.Context())
			if err != nil {
				return err
			}
			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), summaries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tSAVED\tTOTAL")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Key, s.Timestamp, s.Total.StringFixed(2))
			}
			return tw.Flush()
		},
	}
}

func (c *cli) estimatesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show KEY",
		Short: "Print one saved estimate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := c.wire.Service.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printQuote(cmd.OutOrStdout(), q)
		},
	}
}

func (c *cli) estimatesSaveCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "save KEY",
		Short: "Price a quote document and save it under KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(file)
			if err != nil {
				return err
			}
			q, err := c.wire.Service.Save(cmd.Context(), args[0], doc.Customer, doc.Inputs)
			if err != nil {
				return err
			}
			return c.printQuote(cmd.OutOrStdout(), q)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "quote document (- for stdin)")
	return cmd
}

func (c *cli) estimatesRecomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute KEY",
		Short: "Reprice a saved estimate against the active catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := c.wire.Service.Recompute(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}
			return c.printQuote(cmd.OutOrStdout(), q)
		},
	}
}

func (c *cli) estimatesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY",
		Short: "Remove a saved estimate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.wire.Service.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
