package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/swirl"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of swirl",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "swirl version %s\n", swirl.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
