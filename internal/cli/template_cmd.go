package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/weekendly/weekendly/internal/cli/formatter"
	"github.com/weekendly/weekendly/internal/domain"
	"github.com/weekendly/weekendly/internal/library"
)

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"templates", "activity"},
		Short:   "Manage the activity library",
	}

	cmd.AddCommand(
		newTemplateListCmd(app),
		newTemplateShowCmd(app),
		newTemplateAddCmd(app),
		newTemplateEditCmd(app),
		newTemplateDeleteCmd(app),
		newTemplateImportCmd(app),
	)

	return cmd
}

func newTemplateListCmd(app *App) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activity templates, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates := app.Templates.ListTemplates(filter)
			if len(templates) == 0 && filter != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "No templates match %q.\n", filter)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTemplateList(templates))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only templates whose title or category contains this text")
	return cmd
}

func newTemplateShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTemplateID(app, args[0])
			if err != nil {
				return err
			}
			t, _ := app.Templates.GetTemplate(id)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Header("Template"))
			fmt.Fprintf(out, "  ID:       %s\n", t.ID)
			fmt.Fprintf(out, "  Title:    %s %s\n", formatter.Icon(t.Category), formatter.Bold(t.Title))
			fmt.Fprintf(out, "  Category: %s\n", t.Category)
			fmt.Fprintf(out, "  Duration: %s\n", t.EstimatedDuration)
			fmt.Fprintf(out, "  Vibe:     %s\n", formatter.Vibe(t.Vibe))
			return nil
		},
	}
}

func newTemplateAddCmd(app *App) *cobra.Command {
	var in library.CreateInput
	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add an activity template to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Title = args[0]
			t, err := app.Templates.CreateTemplate(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Added "+formatter.FormatTemplate(t)))
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Category, "category", "", "Category (default "+domain.DefaultCategory+")")
	cmd.Flags().StringVar(&in.Duration, "duration", "", "Estimated duration (default "+domain.DefaultDuration+")")
	cmd.Flags().StringVar(&in.Vibe, "vibe", "", "Vibe (default "+domain.DefaultVibe+")")
	return cmd
}

func newTemplateEditCmd(app *App) *cobra.Command {
	var title, category, duration, vibe string
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a template; already scheduled copies keep their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTemplateID(app, args[0])
			if err != nil {
				return err
			}

			var patch domain.TemplatePatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("category") {
				patch.Category = &category
			}
			if cmd.Flags().Changed("duration") {
				patch.EstimatedDuration = &duration
			}
			if cmd.Flags().Changed("vibe") {
				patch.Vibe = &vibe
			}
			if patch == (domain.TemplatePatch{}) {
				return errors.New("nothing to change; pass --title, --category, --duration or --vibe")
			}

			t, err := app.Templates.UpdateTemplate(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Updated "+formatter.FormatTemplate(t)))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	cmd.Flags().StringVar(&duration, "duration", "", "New estimated duration")
	cmd.Flags().StringVar(&vibe, "vibe", "", "New vibe")
	return cmd
}

func newTemplateDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a template; scheduled copies are kept",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTemplateID(app, args[0])
			if err != nil {
				return err
			}
			t, _ := app.Templates.GetTemplate(id)
			if !app.Templates.DeleteTemplate(cmd.Context(), id) {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Warning("Template already gone."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Deleted %q", t.Title)))
			return nil
		},
	}
}

func newTemplateImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Add every template listed in a YAML catalog",
		Long: `Add every template listed in a YAML catalog. The file is either a list
of entries or a mapping with a "templates" list:

  templates:
    - title: Farmers market
      category: Food
      duration: 1h
      vibe: Happy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading catalog: %w", err)
			}
			inputs, err := parseTemplateCatalog(data)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			created, err := app.Templates.ImportTemplates(cmd.Context(), inputs)
			out := cmd.OutOrStdout()
			for _, t := range created {
				fmt.Fprintln(out, "  "+formatter.FormatTemplate(t))
			}
			fmt.Fprintln(out, formatter.Success(fmt.Sprintf("Imported %d of %d templates", len(created), len(inputs))))
			return err
		},
	}
}

// catalogEntry is one template in an import file. Both "duration" and
// "estimatedDuration" are accepted.
type catalogEntry struct {
	Title             string `yaml:"title"`
	Category          string `yaml:"category"`
	Duration          string `yaml:"duration"`
	EstimatedDuration string `yaml:"estimatedDuration"`
	Vibe              string `yaml:"vibe"`
}

type catalogFile struct {
	Templates []catalogEntry `yaml:"templates"`
}

func parseTemplateCatalog(data []byte) ([]library.CreateInput, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, errors.New("catalog is empty")
	}

	var entries []catalogEntry
	switch root := doc.Content[0]; root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&entries); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var f catalogFile
		if err := root.Decode(&f); err != nil {
			return nil, err
		}
		entries = f.Templates
	default:
		return nil, errors.New("catalog must be a list of templates or a mapping with a templates list")
	}
	if len(entries) == 0 {
		return nil, errors.New("catalog lists no templates")
	}

	inputs := make([]library.CreateInput, len(entries))
	for i, e := range entries {
		inputs[i] = library.CreateInput{
			Title:    e.Title,
			Category: e.Category,
			Duration: domain.CoalesceStr(e.Duration, e.EstimatedDuration),
			Vibe:     e.Vibe,
		}
	}
	return inputs, nil
}
