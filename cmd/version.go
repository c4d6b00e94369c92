package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olgasafonova/confluence-upload/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "confluence-upload %s\n", version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
