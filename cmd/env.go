package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print shell exports that let LaTeX find assets",
	Long: `Print a TEXINPUTS export covering the figures, tables and data snapshot
directories, so \includegraphics{<filename>} and \input{<filename>} work
without paths.

Usage:
  eval "$(lxa env)"`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("export TEXINPUTS=%q\n", appWorkspace.GetTexInputsEnv())
		fmt.Printf("export LXA_ROOT=%q\n", appWorkspace.RootPath)
	},
}
