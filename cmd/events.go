package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/ui"
)

var (
	eventsKind  string
	eventsLimit int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent factory events",
	Long: `List recent entries from the append-only event log: token creations,
template updates, and fee updates.

Examples:
  tokenforge events
  tokenforge events --kind token_created --limit 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		evts, err := eventLog.Recent(eventsKind, eventsLimit)
		if err != nil {
			return err
		}
		if len(evts) == 0 {
			fmt.Println(ui.Meta("no events recorded"))
			return nil
		}

		for _, e := range evts {
			fmt.Printf("%s %s %s\n",
				ui.Meta(e.At.Format(time.RFC3339)),
				ui.Template(e.Kind),
				ui.Meta(e.ID[:8]))
			for k, v := range e.Fields {
				fmt.Printf("    %s %s\n", ui.Meta(k+":"), v)
			}
		}
		return nil
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsKind, "kind", "", "filter by event kind")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 20, "maximum events to show")
}
