package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/weekendly/weekendly/internal/cli/formatter"
	"github.com/weekendly/weekendly/internal/export"
)

// exportFormat is the --format flag value.
type exportFormat string

const (
	formatJSON exportFormat = "json"
	formatText exportFormat = "text"
)

var _ pflag.Value = (*exportFormat)(nil)

func (f *exportFormat) String() string { return string(*f) }
func (f *exportFormat) Type() string   { return "format" }

func (f *exportFormat) Set(v string) error {
	switch exportFormat(strings.ToLower(v)) {
	case formatJSON:
		*f = formatJSON
	case formatText, "txt":
		*f = formatText
	default:
		return fmt.Errorf("must be json or text")
	}
	return nil
}

func newExportCmd(app *App) *cobra.Command {
	format := formatJSON
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the plan as a JSON snapshot or plain text",
		Long: `Export the plan. JSON exports are written to a file, by default
weekendly-plan-YYYY-MM-DD.json in the current directory. Text exports go to
stdout unless --output is given. Use --output - to send JSON to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.Schedule.Snapshot()
			now := app.now()

			var data []byte
			switch format {
			case formatText:
				data = []byte(export.Text(s))
			default:
				var err error
				if data, err = export.JSON(s, now); err != nil {
					return fmt.Errorf("encoding export: %w", err)
				}
				if output == "" {
					output = export.Filename(now)
				}
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("creating export directory: %w", err)
				}
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Exported plan to "+output))
			return nil
		},
	}
	cmd.Flags().VarP(&format, "format", "f", "Export format: json or text")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file")
	return cmd
}
