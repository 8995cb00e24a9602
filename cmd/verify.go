package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lx-assets/internal/core/services"
	"github.com/kamal-hamza/lx-assets/pkg/ui"
)

var verifyCmd = &cobra.Command{
	Use:     "verify",
	Aliases: []string{"doctor"},
	Short:   "Check that the manifest and the asset tree agree",
	Long: `Read-only consistency check. Reports:
  - records whose file is missing or unreadable
  - records whose path does not match their category and filename
  - differences between the JSON and CSV manifests
  - files under the tree that no record references
  - leftover temporary files from interrupted saves
  - missing category directories

Exits non-zero when anything is found.`,
	RunE: runVerify,
}

var issueLabels = []struct {
	kind  services.IssueKind
	label string
}{
	{services.IssueMissingLayout, "Missing directories"},
	{services.IssueMissingFile, "Missing files"},
	{services.IssueUnreadable, "Unreadable files"},
	{services.IssuePathMismatch, "Path mismatches"},
	{services.IssueTabularDrift, "CSV manifest drift"},
	{services.IssueStrayFile, "Unregistered files"},
	{services.IssueLeftoverTemp, "Leftover temp files"},
}

func runVerify(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.FormatRocket("Verifying asset tree..."))
	fmt.Println()

	report, err := verifyService.Execute(getContext())
	if err != nil {
		fmt.Println(ui.FormatError("Manifest could not be read"))
		return err
	}

	for _, l := range issueLabels {
		n := report.Count(l.kind)
		if n == 0 {
			fmt.Println(ui.FormatSuccess(l.label + ": none"))
			continue
		}
		fmt.Println(ui.FormatWarning(fmt.Sprintf("%s: %d", l.label, n)))
		for _, is := range report.Issues {
			if is.Kind != l.kind {
				continue
			}
			line := "    " + is.Path
			if is.Detail != "" {
				line += "  " + ui.FormatMuted(is.Detail)
			}
			fmt.Println(line)
		}
	}

	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Records", fmt.Sprintf("%d", report.Records)))

	if !report.OK() {
		fmt.Println(ui.FormatError(fmt.Sprintf("%d problem(s) found", len(report.Issues))))
		return fmt.Errorf("verification failed")
	}
	fmt.Println(ui.FormatSuccess("Manifest and asset tree agree"))
	return nil
}
