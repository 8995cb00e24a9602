package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lx-assets/pkg/ui"
	"github.com/kamal-hamza/lx-assets/pkg/workspace"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the asset tree",
	Long: `Create the asset directory structure under the root (default ./assets):
  - figures/         : PNG figures
  - tables/          : CSV result tables
  - data_snapshots/  : CSV data snapshots
  - models/          : serialized models
  - summaries/       : JSON summaries
  - manifests/       : asset_manifest.json and asset_manifest.csv

Running init on an existing tree is safe; nothing is overwritten.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	ws := appWorkspace

	if ws.Exists() {
		fmt.Println(ui.FormatWarning("Asset tree already initialized"))
		fmt.Println(ui.FormatMuted("Location: " + ws.RootPath))
	} else {
		fmt.Println(ui.FormatRocket("Initializing asset tree..."))
		fmt.Println()
	}

	if err := ws.Initialize(); err != nil {
		fmt.Println(ui.FormatError("Failed to initialize asset tree"))
		return err
	}

	// Create default config
	if _, err := os.Stat(ws.ConfigPath); os.IsNotExist(err) {
		if err := createDefaultConfig(ws); err != nil {
			fmt.Println(ui.FormatWarning("Failed to create default config: " + err.Error()))
		} else {
			fmt.Println(ui.FormatSuccess("Config created at " + ws.ConfigPath))
		}
	}

	if err := createGitignore(ws); err != nil {
		fmt.Println(ui.FormatWarning("Failed to create .gitignore: " + err.Error()))
	}

	fmt.Println(ui.FormatSuccess("Asset tree ready"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Location", ws.RootPath))
	fmt.Println(ui.RenderKeyValue("Manifest", ws.ManifestJSONPath()))
	fmt.Println()
	fmt.Println(ui.FormatInfo("Next steps:"))
	fmt.Println(ui.FormatMuted("  1. Save a figure: lxa save figure plot.png -s forecasting -n lstm_forecast"))
	fmt.Println(ui.FormatMuted("  2. List assets:   lxa list"))
	fmt.Println(ui.FormatMuted("  3. Point LaTeX at the tree: eval \"$(lxa env)\""))

	return nil
}

func createDefaultConfig(ws *workspace.Workspace) error {
	defaultConfig := fmt.Sprintf(`# LXA Configuration
# This file is optional - all settings have sensible defaults

# Asset tree root
root: %q

# What a save does when (category, section, name, version) is already registered:
# overwrite (replace file and record, keep id), reject, or bump (next minor version)
# duplicate_policy: overwrite

# Section used by imports when none is given and none can be inferred
# default_section: ""

# Tags added to every save
# default_tags: []

# log_level: warn
# log_format: console

# auto, dark, light or none
# color_theme: auto

# Directory watched by 'lxa watch' (default <root>/inbox)
# inbox: ""

# s3:
#   bucket: ""
#   prefix: ""
#   region: ""
`, ws.RootPath)

	if err := os.MkdirAll(filepath.Dir(ws.ConfigPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(ws.ConfigPath, []byte(defaultConfig), 0644)
}

func createGitignore(ws *workspace.Workspace) error {
	path := filepath.Join(ws.RootPath, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	content := `# LXA working files
manifests/.lock
.*.tmp-*
.*.bak
inbox/
`
	return os.WriteFile(path, []byte(content), 0644)
}
