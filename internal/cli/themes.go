package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"resumake/internal/theme"

	"github.com/spf13/cobra"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the builtin themes",
	RunE:  runThemes,
}

func runThemes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLAYOUT\tPRIMARY\tACCENT\tHEADING FONT\tBODY FONT")
	for _, th := range theme.List() {
		fmt.Fprintf(w, "%s\t%s\t#%s\t#%s\t%s\t%s\n",
			th.Name, th.Layout.Type,
			th.Colors.Primary, th.Colors.Accent,
			th.Fonts.Heading, th.Fonts.Body)
	}
	return w.Flush()
}
