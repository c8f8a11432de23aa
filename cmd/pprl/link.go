package main

import "github.com/spf13/cobra"

// linkCmd represents the link command
var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Run metric-space linking",
	Long: `Run streaming linkage over a pivot-based metric-space index. The first
party of the run configuration seeds the index; the others are linked in the
given order.

Examples:
  pprl link --config run.yaml
  pprl link -c run.yaml --json-logs`,
	RunE: runE(runLink),
}

func init() {
	rootCmd.AddCommand(linkCmd)
}
