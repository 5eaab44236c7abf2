package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/logsmart/designer/pkg/history"
)

// versionsCommand creates the versions command.
func (c *CLI) versionsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "versions <template-id>",
		Short: "List the saved versions of a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			t, err := st.Load(ctx, args[0])
			if err != nil {
				return err
			}
			snaps, err := st.LoadHistory(ctx, t.ID)
			if err != nil {
				return err
			}
			entries := make([]history.Entry, len(snaps))
			for i, s := range snaps {
				entries[i] = history.Entry{Index: i, Snapshot: s}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(newestFirst(entries))
			}

			fmt.Fprintln(out, StyleTitle.Render(t.Name)+" "+StyleDim.Render(t.ID))
			if len(entries) == 0 {
				fmt.Fprintln(out, StyleDim.Render("no saved versions"))
				return nil
			}
			fmt.Fprintln(out, renderVersions(newestFirst(entries), time.Now(), -1))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print versions as JSON")
	return cmd
}
