package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/logsmart/designer/pkg/canvas"
	"github.com/logsmart/designer/pkg/session"
	"github.com/logsmart/designer/pkg/template"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <template-id>",
		Short: "Write a stored template as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := template.ParseFormat(format)
			if err != nil {
				return err
			}
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

			if output == "" {
				return template.Write(cmd.OutOrStdout(), t, f)
			}
			if err := template.Export(t, output); err != nil {
				return err
			}
			printSuccess("Exported %s (version %d)", StyleHighlight.Render(t.Name), t.Version)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format when writing to stdout (json or yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file; the format follows the extension")
	return cmd
}

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Save a template file as a new template",
		Long: `Save a template file (JSON or YAML) as a new template.

Any id in the file is ignored. The imported layout becomes version 1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			t, err := template.Import(args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(name) != "" {
				t.Name = name
			}
			if t.Schedule.Frequency == "" {
				t.Schedule = template.DefaultSchedule()
			}
			if err := t.Schedule.Validate(); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

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
			if err := ctrl.OpenNew(t.Name, t.Schedule); err != nil {
				return err
			}
			defer ctrl.Close()

			model, err := ctrl.Canvas()
			if err != nil {
				return err
			}
			model.Replace(t.Layout)
			saved, err := ctrl.Save(ctx)
			if err != nil {
				return err
			}
			stored, err := ctrl.Template()
			if err != nil {
				return err
			}

			printSuccess("Imported %s", StyleHighlight.Render(stored.Name))
			printKeyValue("version", fmt.Sprint(saved.Version))
			printKeyValue("items", fmt.Sprint(len(saved.Layout)))
			fmt.Fprintln(cmd.OutOrStdout(), stored.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "template name (default: the name in the file)")
	return cmd
}
