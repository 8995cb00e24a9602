package cmd

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
	"github.com/kamal-hamza/lx-assets/internal/core/services"
	"github.com/kamal-hamza/lx-assets/pkg/ui"
)

var findPrint bool

var findCmd = &cobra.Command{
	Use:   "find [query]",
	Short: "Fuzzy-find an asset and copy its LaTeX snippet",
	Long: `Search assets by name, section, tags and description.

With no query an interactive finder opens; the selected asset's LaTeX
snippet is copied to the clipboard. With a query the ranked matches are
printed (use --print to print even when interactive is possible).

Examples:
  lxa find
  lxa find forecast
  lxa find dml --print`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFind,
}

func init() {
	findCmd.Flags().BoolVarP(&findPrint, "print", "p", false, "Print matches instead of opening the finder")
}

func runFind(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	query := ""
	if len(args) == 1 {
		query = args[0]
	}

	resp, err := listService.Search(ctx, services.SearchRequest{Query: query})
	if err != nil {
		return err
	}

	if resp.Total == 0 {
		fmt.Println(ui.FormatWarning("No matching assets"))
		return nil
	}

	if query != "" || findPrint {
		for _, a := range resp.Assets {
			fmt.Printf("%s  %s  %s\n",
				ui.StyleAccent.Render(shortID(a.ID)),
				ui.FormatBold(a.Filename),
				ui.FormatMuted(a.GetTagsString()))
		}
		return nil
	}

	return runInteractiveFind(resp.Assets)
}

// runInteractiveFind opens the fuzzy finder with a record preview
func runInteractiveFind(assets []domain.Asset) error {
	idx, err := fuzzyfinder.Find(
		assets,
		func(i int) string {
			a := assets[i]
			return fmt.Sprintf("%s  %s  %s  %s", a.Filename, a.Section, a.GetTagsString(), a.Description)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return previewAsset(&assets[i])
		}),
	)
	if err != nil {
		fmt.Println(ui.FormatInfo("Selection cancelled."))
		return nil
	}

	selected := assets[idx]
	snippet := selected.LatexSnippet()

	fmt.Println(ui.FormatSuccess("Selected: " + selected.Filename))
	fmt.Println()
	fmt.Println(ui.FormatInfo("LaTeX Code (Copied):"))
	fmt.Println(ui.StyleBold.Render(snippet))

	if err := clipboard.WriteAll(snippet); err != nil {
		fmt.Println(ui.FormatMuted("(Clipboard access failed)"))
	}
	return nil
}

func previewAsset(a *domain.Asset) string {
	var s strings.Builder
	fmt.Fprintf(&s, "%s %s\n", ui.CategoryIcon(a.Category), ui.StyleBold.Render(a.Filename))
	fmt.Fprintf(&s, "Section: %s\n", a.Section)
	fmt.Fprintf(&s, "Version: %s\n", a.Version)
	fmt.Fprintf(&s, "Saved:   %s\n", a.CreatedAt.Local().Format("Jan 02, 2006 15:04"))
	if len(a.Tags) > 0 {
		fmt.Fprintf(&s, "Tags:    %s\n", a.GetTagsString())
	}
	s.WriteString("\n")

	if a.Description != "" {
		s.WriteString(ui.StyleHeader.Render("Description") + "\n")
		s.WriteString(a.Description + "\n\n")
	}
	if a.SourceCodeReference != "" {
		s.WriteString(ui.StyleHeader.Render("Source") + "\n")
		s.WriteString(a.SourceCodeReference + "\n\n")
	}

	s.WriteString(ui.StyleHeader.Render("LaTeX") + "\n")
	s.WriteString(a.LatexSnippet())
	return s.String()
}
