package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olgasafonova/confluence-upload/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Print the Confluence storage format of a Markdown file",
	Long: `Convert a single Markdown file the same way an upload would and print the
storage-format body to stdout. Nothing is sent to Confluence.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		doc := convert.New().Convert(source)
		out := cmd.OutOrStdout()
		if len(doc.Labels) > 0 {
			fmt.Fprintf(out, "<!-- labels: %s -->\n", strings.Join(doc.Labels, ", "))
		}
		fmt.Fprintln(out, doc.Body)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
