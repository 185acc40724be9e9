package cmd

import (
	"fmt"

	"github.com/hikarime/stashbot/pkg/consts"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stashbot %s (commit %s, built %s)\n",
			consts.Version, consts.GitCommit, consts.BuildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
