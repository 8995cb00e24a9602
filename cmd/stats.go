package cmd

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
	"github.com/kamal-hamza/lx-assets/internal/core/services"
	"github.com/kamal-hamza/lx-assets/pkg/ui"
)

var (
	statsChart string
	statsOpen  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show asset tree statistics",
	Long: `Summarize the manifest: totals, assets per category, section and tag.

With --chart an HTML page with interactive charts is written as well.

Examples:
  lxa stats
  lxa stats --chart stats.html --open`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsChart, "chart", "", "Write an HTML chart page to this path")
	statsCmd.Flags().BoolVar(&statsOpen, "open", false, "Open the chart page after writing it")
}

func runStats(cmd *cobra.Command, args []string) error {
	st, err := statsService.Execute(getContext())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(ui.FormatTitle("Asset Statistics"))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Total Assets:"), st.Total)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Series:"), st.Series)
	fmt.Fprintf(w, "%s\t%s\n", ui.StyleBold.Render("Disk Usage:"), formatBytes(st.TotalBytes))
	if st.Latest != nil {
		fmt.Fprintf(w, "%s\t%s v%s (%s)\n", ui.StyleBold.Render("Latest:"),
			st.Latest.Name, st.Latest.Version, st.Latest.CreatedAt.Local().Format(appConfig.DisplayDateFormat))
		fmt.Fprintf(w, "%s\t%s\n", ui.StyleBold.Render("First Saved:"), st.Oldest.Local().Format(appConfig.DisplayDateFormat))
	}
	w.Flush()
	fmt.Println()

	renderBars("By Category", st.ByCategory, 0)
	renderBars("By Section", st.BySection, 8)
	renderBars("Top Tags", st.ByTag, 5)

	if statsChart == "" {
		return nil
	}

	if err := writeStatsChart(statsChart, st); err != nil {
		fmt.Println(ui.FormatError("Failed to write chart"))
		return err
	}
	fmt.Println(ui.FormatSuccess("Chart written to " + statsChart))

	if statsOpen {
		return OpenFile(statsChart, "")
	}
	return nil
}

// renderBars prints a horizontal bar chart; limit 0 shows every row
func renderBars(title string, counts []services.Count, limit int) {
	if len(counts) == 0 {
		return
	}

	fmt.Println(ui.StyleHeader.Render(title))

	if limit <= 0 || limit > len(counts) {
		limit = len(counts)
	}

	maxCount := counts[0].Value
	barWidth := 20

	for _, c := range counts[:limit] {
		length := int(math.Ceil(float64(c.Value) / float64(maxCount) * float64(barWidth)))
		fmt.Printf("%s %-20s %s\n",
			ui.StyleAccent.Render(padRight(strings.Repeat("█", length), barWidth)),
			truncate(c.Label, 20),
			ui.StyleMuted.Render(fmt.Sprintf("%d", c.Value)),
		)
	}
	fmt.Println()
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// writeStatsChart renders a stacked section/category bar chart plus a
// category pie into one HTML page
func writeStatsChart(path string, st *services.Stats) error {
	sections := make([]string, 0, len(st.BySectionCategory))
	for s := range st.BySectionCategory {
		sections = append(sections, s)
	}
	sort.Strings(sections)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Assets per section", Subtitle: fmt.Sprintf("%d assets", st.Total)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)
	bar.SetXAxis(sections)
	for _, c := range domain.Categories {
		data := make([]opts.BarData, len(sections))
		for i, s := range sections {
			data[i] = opts.BarData{Value: st.BySectionCategory[s][c]}
		}
		bar.AddSeries(string(c), data, charts.WithBarChartOpts(opts.BarChart{Stack: "assets"}))
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Assets per category"}))
	slices := make([]opts.PieData, 0, len(st.ByCategory))
	for _, c := range st.ByCategory {
		slices = append(slices, opts.PieData{Name: c.Label, Value: c.Value})
	}
	pie.AddSeries("category", slices)

	page := components.NewPage()
	page.PageTitle = "lxa stats"
	page.AddCharts(bar, pie)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
