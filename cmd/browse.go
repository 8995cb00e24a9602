package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
	"github.com/kamal-hamza/lx-assets/pkg/ui"
)

var (
	browseCategory string
	browseSection  string
	browseTag      string
	browseSortBy   string
	browseReverse  bool
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse assets in an interactive table",
	Long: `Open a terminal table of registered assets.

Keys:
  enter  open the file
  c      copy the LaTeX snippet
  q      quit`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVarP(&browseCategory, "category", "c", "", "Filter by category")
	browseCmd.Flags().StringVarP(&browseSection, "section", "s", "", "Filter by section")
	browseCmd.Flags().StringVar(&browseTag, "tag", "", "Filter by tag")
	browseCmd.Flags().StringVar(&browseSortBy, "sort", "", "Sort by field (created, name, section, version)")
	browseCmd.Flags().BoolVar(&browseReverse, "reverse", false, "Reverse sort order")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	req, err := buildListRequest(cmd, browseCategory, browseSection, browseTag)
	if err != nil {
		return err
	}

	resp, err := listService.Execute(getContext(), req)
	if err != nil {
		return err
	}
	if resp.Total == 0 {
		fmt.Println(ui.FormatWarning("No assets found"))
		return nil
	}

	final, err := tea.NewProgram(newBrowseModel(resp.Assets)).Run()
	if err != nil {
		return err
	}

	if m, ok := final.(browseModel); ok && m.openErr != nil {
		return m.openErr
	}
	return nil
}

type browseModel struct {
	table   table.Model
	assets  []domain.Asset
	status  string
	openErr error
}

func newBrowseModel(assets []domain.Asset) browseModel {
	columns := []table.Column{
		{Title: "", Width: 2},
		{Title: "Section", Width: 18},
		{Title: "Name", Width: 32},
		{Title: "Ver", Width: 5},
		{Title: "Saved", Width: 16},
		{Title: "Tags", Width: 20},
	}

	rows := make([]table.Row, 0, len(assets))
	for _, a := range assets {
		rows = append(rows, table.Row{
			ui.CategoryIcon(a.Category),
			truncate(a.Section, 18),
			truncate(a.Name, 32),
			a.Version.String(),
			a.CreatedAt.Local().Format(appConfig.DisplayDateFormat),
			truncate(a.GetTagsString(), 20),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 15)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ui.ColorDefault).
		Background(ui.ColorPrimary).
		Bold(true)
	t.SetStyles(s)

	return browseModel{table: t, assets: assets}
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if a := m.selected(); a != nil {
				m.openErr = OpenFile(a.Path, "")
				return m, tea.Quit
			}

		case "c":
			if a := m.selected(); a != nil {
				if err := clipboard.WriteAll(a.LatexSnippet()); err != nil {
					m.status = "Clipboard access failed"
				} else {
					m.status = "Copied " + a.Filename
				}
			}
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) selected() *domain.Asset {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.assets) {
		return nil
	}
	return &m.assets[idx]
}

func (m browseModel) View() string {
	detail := ""
	if a := m.selected(); a != nil {
		detail = ui.FormatMuted(a.Filename)
		if a.Description != "" {
			detail += "\n" + ui.FormatMuted(truncate(a.Description, 90))
		}
	}

	status := ""
	if m.status != "" {
		status = "\n" + ui.StyleInfo.Render(" "+m.status)
	}

	return "\n" +
		ui.StyleTitle.Render(fmt.Sprintf(" Assets (%d) ", len(m.assets))) + "\n\n" +
		m.table.View() + "\n\n" +
		detail + status + "\n\n" +
		ui.FormatMuted(" [Enter] Open  [c] Copy LaTeX  [q] Quit") + "\n"
}
