package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lx-assets/pkg/ui"
)

var (
	showOpen bool
	showCopy bool
)

var showCmd = &cobra.Command{
	Use:   "show <id|filename>",
	Short: "Show one asset and the other versions of its series",
	Long: `Show the manifest record of an asset. The reference may be the full id,
a unique id prefix, or the stored filename.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVarP(&showOpen, "open", "o", false, "Open the file with the default application")
	showCmd.Flags().BoolVar(&showCopy, "copy", false, "Copy the LaTeX snippet to the clipboard")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	a, err := listService.Get(ctx, args[0])
	if err != nil {
		fmt.Println(ui.FormatError("Asset not found: " + args[0]))
		return err
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("%s v%s", a.Name, a.Version)))
	fmt.Println()
	pairs := []string{
		"ID", a.ID,
		"Category", ui.FormatCategory(a.Category),
		"Section", a.Section,
		"Filename", a.Filename,
		"Path", a.Path,
		"Created", a.CreatedAt.Local().Format(appConfig.DisplayDateFormat),
	}
	if len(a.Tags) > 0 {
		pairs = append(pairs, "Tags", a.GetTagsString())
	}
	if a.Description != "" {
		pairs = append(pairs, "Description", a.Description)
	}
	if a.SourceCodeReference != "" {
		pairs = append(pairs, "Source", a.SourceCodeReference)
	}
	if info, err := os.Stat(a.Path); err == nil {
		pairs = append(pairs, "Size", formatBytes(info.Size()))
	}
	pairs = append(pairs, "LaTeX", a.LatexSnippet())
	fmt.Print(ui.RenderKeyValues(pairs...))

	if _, err := os.Stat(a.Path); err != nil {
		fmt.Println(ui.FormatWarning("File missing on disk"))
	}

	series, err := listService.Versions(ctx, a.Category, a.Section, a.Name)
	if err == nil && len(series) > 1 {
		fmt.Println()
		fmt.Println(ui.StyleHeader.Render("Versions"))
		var items []string
		for _, v := range series {
			marker := ""
			if v.ID == a.ID {
				marker = ui.StyleAccent.Render("  (this)")
			}
			items = append(items, fmt.Sprintf("v%s  %s%s", v.Version, v.CreatedAt.Local().Format(appConfig.DisplayDateFormat), marker))
		}
		fmt.Print(ui.RenderSimpleList(items))
	}

	if showCopy {
		if err := clipboard.WriteAll(a.LatexSnippet()); err != nil {
			fmt.Println(ui.FormatMuted("(Clipboard access failed)"))
		}
	}

	if showOpen {
		return OpenFile(a.Path, "")
	}
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), strings.ToUpper("kmgtpe")[exp])
}
