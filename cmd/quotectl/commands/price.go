package commands

import (
	"github.com/spf13/cobra"
)

func (c *cli) priceCmd() *cobra.Command {
	var file, key string

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a quote document without saving it",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(file)
			if err != nil {
				return err
			}
			if err := c.setup(cmd.Context()); err != nil {
				return err
			}

			q, err := c.wire.Service.Engine().Compute(key, doc.Customer, doc.Inputs)
			if err != nil {
				return err
			}
			return c.printQuote(cmd.OutOrStdout(), q)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "quote document (- for stdin)")
	cmd.Flags().StringVarP(&key, "key", "k", "draft", "account name printed on the quote")
	return cmd
}
