package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/logsmart/designer/pkg/canvas"
	"github.com/logsmart/designer/pkg/errors"
	"github.com/logsmart/designer/pkg/snap"
	"github.com/logsmart/designer/pkg/template"
)

// snapResult is the JSON output of the snap command.
type snapResult struct {
	Item canvas.Item `json:"item"`
	snap.Result
}

// snapCommand creates the snap command.
func (c *CLI) snapCommand() *cobra.Command {
	var (
		layoutPath string
		itemID     string
		x, y       float64
		threshold  float64
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "snap --layout <file> --item <id> --x <x> --y <y>",
		Short: "Move an item in a layout file and report where it snaps",
		Long: `Move an item in a layout file and report the snapped position and guide lines.

The layout file is either a template (JSON or YAML) or a bare JSON array of
items. Item sizes come from the component catalog.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.Canvas.SnapThreshold
			}

			items, err := readLayout(layoutPath)
			if err != nil {
				return err
			}
			model := canvas.New(
				canvas.WithSize(cfg.Canvas.Width, cfg.Canvas.Height),
				canvas.WithThreshold(threshold),
			)
			model.Replace(items)

			res, ok := model.Move(itemID, x, y)
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "no item %q in %s", itemID, layoutPath)
			}
			it, _ := model.Item(itemID)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snapResult{Item: it, Result: res})
			}
			printSnap(out, it, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&layoutPath, "layout", "", "template or layout file")
	cmd.Flags().StringVar(&itemID, "item", "", "id of the item to move")
	cmd.Flags().Float64Var(&x, "x", 0, "proposed left edge")
	cmd.Flags().Float64Var(&y, "y", 0, "proposed top edge")
	cmd.Flags().Float64Var(&threshold, "threshold", snap.DefaultThreshold, "snap distance in pixels")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.MarkFlagRequired("layout")
	cmd.MarkFlagRequired("item")

	return cmd
}

// readLayout reads a template file or a bare JSON item array.
func readLayout(path string) ([]canvas.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var items []canvas.Item
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse layout %s", path)
		}
		return items, nil
	}
	t, err := template.Read(bytes.NewReader(data), template.FormatFromPath(path))
	if err != nil {
		return nil, err
	}
	return t.Layout, nil
}

func printSnap(w io.Writer, it canvas.Item, res snap.Result) {
	fmt.Fprintln(w, keyValue("item", it.ID+" ("+it.Type+")"))
	fmt.Fprintln(w, keyValue("position", formatFloat(it.X)+", "+formatFloat(it.Y)))
	fmt.Fprintln(w, keyValue("guides x", formatGuides(res.GuideLinesX)))
	fmt.Fprintln(w, keyValue("guides y", formatGuides(res.GuideLinesY)))
}

func formatGuides(lines []float64) string {
	if len(lines) == 0 {
		return StyleDim.Render("none")
	}
	s := ""
	for i, v := range lines {
		if i > 0 {
			s += ", "
		}
		s += formatFloat(v)
	}
	return s
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
