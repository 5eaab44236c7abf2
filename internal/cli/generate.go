package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/logsmart/designer/pkg/errors"
	"github.com/logsmart/designer/pkg/template"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Draft a layout from a description",
		Long: `Ask the configured model for a layout matching a description.

The draft is printed as a JSON item array, or written as a template file with
--output. Nothing is saved to the store; import the file to keep it.`,
		Example: `  designer generate "fridge temperature check with a fault dropdown"
  designer generate "weekly deep clean checklist" -o deep-clean.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			prompt := strings.Join(args, " ")
			if err := errors.ValidatePrompt(prompt); err != nil {
				return err
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			gen, gc, err := newGenerator(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer gc.Close()

			prog := newProgress(logger)
			spin := newSpinnerWithContext(ctx, "Generating layout with "+cfg.Generator.Model+"...")
			spin.Start()
			items, err := gen.Generate(ctx, prompt)
			if err != nil {
				spin.StopWithError("Generation failed")
				return err
			}
			spin.Stop()
			prog.done("generated layout", "items", len(items))

			if len(items) == 0 {
				printWarning("The model returned no usable items")
				return nil
			}

			if output == "" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			if name == "" {
				name = prompt
			}
			t := template.Template{Name: name, Schedule: template.DefaultSchedule(), Layout: items}
			if err := template.Export(t, output); err != nil {
				return err
			}
			printSuccess("Generated %d items", len(items))
			printFile(output)
			printNextStep("Save it", fmt.Sprintf("%s import %s", appName, output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write a template file (.json or .yaml)")
	cmd.Flags().StringVar(&name, "name", "", "template name for --output (default: the prompt)")
	return cmd
}
