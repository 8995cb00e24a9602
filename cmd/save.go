package cmd

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
	"github.com/kamal-hamza/lx-assets/internal/core/services"
	"github.com/kamal-hamza/lx-assets/pkg/ui"
)

var (
	saveSection     string
	saveName        string
	saveDescription string
	saveTags        []string
	saveVersion     string
	saveBump        bool
	saveSource      string
	saveCopy        bool
	saveText        string
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Register an artifact file under the asset tree",
	Long: `Copy a file into the asset tree under its deterministic name and record
it in the manifest.

Examples:
  lxa save figure forecast.png -s forecasting -n lstm_forecast_vs_actual
  lxa save table impact.csv -s policy_analysis -n policy_impact --tags dml,paper
  lxa save snapshot panel.csv -n input_panel --version 2.0
  lxa save model booster.onnx -s model_evaluation -n xgb --bump
  lxa save summary --text "RMSE fell 12% vs baseline" -n headline

Section may be "auto" (the default) to infer it from the name and tags.`,
}

func newSaveSubcommand(use string, category domain.Category, short string) *cobra.Command {
	c := &cobra.Command{
		Use:   use + " <file>",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(cmd, category, args)
		},
	}
	if category == domain.CategorySummary {
		c.Flags().StringVar(&saveText, "text", "", "Summary text (instead of a file)")
	}
	return c
}

func init() {
	subs := []*cobra.Command{
		newSaveSubcommand("figure", domain.CategoryFigure, "Save a figure (png, jpg, gif; stored as PNG)"),
		newSaveSubcommand("table", domain.CategoryTable, "Save a CSV results table"),
		newSaveSubcommand("snapshot", domain.CategoryDataSnapshot, "Save a CSV data snapshot"),
		newSaveSubcommand("model", domain.CategoryModel, "Save a serialized model"),
		newSaveSubcommand("summary", domain.CategorySummary, "Save a JSON or text summary"),
	}

	for _, c := range subs {
		c.Flags().StringVarP(&saveSection, "section", "s", "auto",
			"Analysis section, e.g. "+strings.Join(domain.KnownSections, ", ")+" (auto infers one)")
		c.Flags().StringVarP(&saveName, "name", "n", "", "Asset name (default: file name)")
		c.Flags().StringVarP(&saveDescription, "description", "d", "", "Free-text description")
		c.Flags().StringSliceVarP(&saveTags, "tags", "t", nil, "Comma-separated tags")
		c.Flags().StringVar(&saveVersion, "version", "", "Version as major.minor (default 1.0)")
		c.Flags().BoolVar(&saveBump, "bump", false, "Save as the next minor version of the series")
		c.Flags().StringVar(&saveSource, "source", "", "Reference to the producing code")
		c.Flags().BoolVar(&saveCopy, "copy", false, "Copy the LaTeX snippet to the clipboard")
		saveCmd.AddCommand(c)
	}
}

func runSave(cmd *cobra.Command, category domain.Category, args []string) error {
	ctx := getContext()

	req := services.SaveRequest{
		Section:     saveSection,
		Name:        saveName,
		Description: saveDescription,
		Tags:        append(append([]string{}, appConfig.DefaultTags...), saveTags...),
		Version:     saveVersion,
		Bump:        saveBump,
		SourceRef:   saveSource,
	}
	if req.Version != "" && req.Bump {
		return fmt.Errorf("--version and --bump are mutually exclusive")
	}

	var (
		asset *domain.Asset
		err   error
	)

	switch {
	case category == domain.CategorySummary && saveText != "":
		if strings.TrimSpace(req.Name) == "" {
			return fmt.Errorf("--name is required with --text")
		}
		if req.Section == "auto" {
			req.Section = domain.InferSection(req.Name, req.Tags)
		}
		asset, err = registrarService.SaveSummary(ctx, domain.Summary{Text: saveText}, req)
	case len(args) == 1:
		asset, err = importService.Import(ctx, services.ImportRequest{
			SrcPath:     args[0],
			Category:    category,
			SaveRequest: req,
		})
	default:
		return fmt.Errorf("a source file is required")
	}

	if err != nil {
		fmt.Println(ui.FormatError("Failed to save " + string(category)))
		return err
	}

	printSaved(asset)

	if saveCopy {
		if err := clipboard.WriteAll(asset.LatexSnippet()); err != nil {
			fmt.Println(ui.FormatMuted("(Clipboard access failed)"))
		} else {
			fmt.Println(ui.FormatMuted("(LaTeX snippet copied)"))
		}
	}
	return nil
}

func printSaved(a *domain.Asset) {
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Saved %s %s v%s", a.Category, a.Name, a.Version)))
	fmt.Println(ui.RenderKeyValue("  Path", a.Path))
	fmt.Println(ui.RenderKeyValue("  Section", a.Section))
	fmt.Println(ui.RenderKeyValue("  ID", a.ID))
	fmt.Println(ui.RenderKeyValue("  LaTeX", a.LatexSnippet()))
}
