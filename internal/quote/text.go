package quote

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteText renders q as a plain-text estimate: one line per item, window
// components indented beneath their item, then the total.
func WriteText(w io.Writer, q Quote) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	name := strings.TrimSpace(q.Customer.FirstName + " " + q.Customer.LastName)
	fmt.Fprintf(tw, "Estimate:\t%s\t\n", q.Key)
	if name != "" {
		fmt.Fprintf(tw, "Customer:\t%s\t\n", name)
	}
	if q.Customer.Address != "" {
		fmt.Fprintf(tw, "Address:\t%s\t\n", q.Customer.Address)
	}
	fmt.Fprintf(tw, "Rates:\t%s\t\n", q.CatalogVersion)
	fmt.Fprintln(tw, "\t\t")

	for _, item := range q.LineItems {
		fmt.Fprintf(tw, "%s\t%s\t\n", item.Name, item.Price.StringFixed(2))
		for _, c := range item.Components {
			fmt.Fprintf(tw, "  %s\t%s\t\n", c.Name, c.Price.StringFixed(2))
		}
	}
	fmt.Fprintf(tw, "Total\t%s\t\n", q.Total.StringFixed(2))

	return tw.Flush()
}
