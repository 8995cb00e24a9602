package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lx-assets/pkg/ui"
)

var configPathOnly bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit the lxa configuration file",
	Long: `Open the configuration file in $EDITOR, creating it with commented
defaults first if it does not exist.`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configPathOnly, "path", false, "Print the config path and exit")
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := appWorkspace.ConfigPath

	if configPathOnly {
		fmt.Println(path)
		return nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefaultConfig(appWorkspace); err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}
		fmt.Println(ui.FormatSuccess("Config created at " + path))
	}

	fmt.Println(ui.FormatInfo("Opening config: " + path))

	c := exec.Command(GetPreferredEditor(), path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
