package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/logsmart/designer/pkg/canvas"
	"github.com/logsmart/designer/pkg/errors"
	"github.com/logsmart/designer/pkg/history"
	"github.com/logsmart/designer/pkg/session"
)

// restoreCommand creates the restore command.
func (c *CLI) restoreCommand() *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "restore <template-id>",
		Short: "Restore a saved version of a template",
		Long: `Restore a saved version of a template and save the result as a new version.

Without --index an interactive picker lists the versions newest first.
Earlier versions are never removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			ctrl := session.New(st,
				session.WithLogger(logger),
				session.WithCanvasOptions(canvas.WithSize(cfg.Canvas.Width, cfg.Canvas.Height)),
			)
			if err := ctrl.Open(ctx, args[0]); err != nil {
				return err
			}
			defer ctrl.Close()

			hist, err := ctrl.History()
			if err != nil {
				return err
			}
			entries := hist.Versions()
			if len(entries) == 0 {
				return errors.New(errors.ErrCodeVersionNotFound, "template %s has no saved versions", args[0])
			}

			if !cmd.Flags().Changed("index") {
				picked, ok, err := pickVersion(ctx, entries)
				if err != nil {
					return err
				}
				if !ok {
					printInfo("Restore cancelled")
					return nil
				}
				index = picked
			}

			restored, saved, err := restoreAndSave(ctx, ctrl, index)
			if err != nil {
				return err
			}
			t, _ := ctrl.Template()
			printSuccess("Restored version %d of %s", restored.Version, StyleHighlight.Render(t.Name))
			printDetail("Saved as version %d: %s", saved.Version, saved.Label)
			return nil
		},
	}

	cmd.Flags().IntVar(&index, "index", 0, "chronological index of the version to restore (0 is the oldest)")
	return cmd
}

// restoreAndSave restores the version at index into the open session and
// saves it as a new version.
func restoreAndSave(ctx context.Context, ctrl *session.Controller, index int) (restored, saved history.Snapshot, err error) {
	restored, err = ctrl.Restore(index)
	if err != nil {
		return history.Snapshot{}, history.Snapshot{}, err
	}
	saved, err = ctrl.Save(ctx)
	if err != nil {
		return history.Snapshot{}, history.Snapshot{}, fmt.Errorf("save restored layout: %w", err)
	}
	return restored, saved, nil
}

// pickVersion shows the interactive picker and returns the chosen index.
func pickVersion(ctx context.Context, entries []history.Entry) (int, bool, error) {
	p := tea.NewProgram(NewVersionListModel(entries), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return 0, false, fmt.Errorf("version picker: %w", err)
	}
	m, ok := final.(VersionListModel)
	if !ok || m.Selected == nil {
		return 0, false, nil
	}
	return m.Selected.Index, true, nil
}
