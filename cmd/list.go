package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
	"github.com/kamal-hamza/lx-assets/internal/core/services"
	"github.com/kamal-hamza/lx-assets/pkg/ui"
)

var (
	listCategory string
	listSection  string
	listTag      string
	listSortBy   string
	listReverse  bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List registered assets",
	Aliases: []string{"ls"},
	Long: `List registered assets in a table, optionally filtered.

Examples:
  lxa list
  lxa list --section forecasting
  lxa list -c table --tag dml
  lxa list --sort created --reverse`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by category")
	listCmd.Flags().StringVarP(&listSection, "section", "s", "", "Filter by section ("+strings.Join(domain.KnownSections, ", ")+", ...)")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Filter by tag")
	listCmd.Flags().StringVar(&listSortBy, "sort", "", "Sort by field (created, name, section, version)")
	listCmd.Flags().BoolVar(&listReverse, "reverse", false, "Reverse sort order")
}

// buildListRequest turns the filter flags into a request, applying config
// defaults for sort flags the user did not set
func buildListRequest(cmd *cobra.Command, category, section, tag string) (services.ListRequest, error) {
	req := services.ListRequest{Section: section, Tag: tag}

	if category != "" {
		c, err := domain.ParseCategory(category)
		if err != nil {
			return req, err
		}
		req.Category = c
	}

	if f := cmd.Flags().Lookup("sort"); f != nil {
		req.SortBy = f.Value.String()
		if !f.Changed {
			req.SortBy = appConfig.DefaultSort
		}
	}
	if f := cmd.Flags().Lookup("reverse"); f != nil {
		req.Reverse = f.Value.String() == "true"
		if !f.Changed {
			req.Reverse = appConfig.ReverseSort
		}
	}
	return req, nil
}

func runList(cmd *cobra.Command, args []string) error {
	req, err := buildListRequest(cmd, listCategory, listSection, listTag)
	if err != nil {
		return err
	}

	resp, err := listService.Execute(getContext(), req)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to list assets"))
		return err
	}

	if resp.Total == 0 {
		fmt.Println(ui.FormatWarning("No assets found"))
		if req.Category == "" && req.Section == "" && req.Tag == "" {
			fmt.Println(ui.FormatInfo("Register your first artifact with: lxa save figure plot.png"))
		}
		return nil
	}

	fmt.Println(ui.FormatTitle("Assets"))
	fmt.Println()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Width: 8},
		{Header: "Category", Width: 15},
		{Header: "Section", Width: 16},
		{Header: "Name", Width: 30},
		{Header: "Version", Width: 7, Align: "right"},
		{Header: "Created", Width: 16},
		{Header: "Tags", Width: 20},
	})

	for _, a := range resp.Assets {
		table.AddRow([]string{
			shortID(a.ID),
			ui.CategoryIcon(a.Category)+" "+string(a.Category),
			truncate(a.Section, 16),
			truncate(a.Name, 30),
			a.Version.String(),
			a.CreatedAt.Local().Format(appConfig.DisplayDateFormat),
			truncate(a.GetTagsString(), 20),
		})
	}

	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("Total: %d assets", resp.Total)))

	return nil
}
