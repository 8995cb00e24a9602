package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lx-assets/pkg/ui"
	"github.com/kamal-hamza/lx-assets/pkg/workspace"
)

// Set at build time with -ldflags "-X github.com/kamal-hamza/lx-assets/cmd.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Println(ui.StyleTitle.Render("LXA") + " - Analysis Asset Registrar")
	fmt.Println()
	fmt.Print(ui.RenderKeyValues(
		"Version", Version,
		"Commit", GitCommit,
		"Build Date", BuildDate,
		"Go", runtime.Version(),
		"Manifest", workspace.ManifestJSONName+", "+workspace.ManifestCSVName,
	))
}
