package main

import "github.com/spf13/cobra"

// clusterCmd represents the cluster command
var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Run blocked incremental clustering",
	Long: `Run blocked incremental clustering over all parties of the run
configuration. Parties are processed largest first; records are only compared
within their block.

Examples:
  pprl cluster --config run.yaml
  pprl cluster -c run.yaml --log-level debug`,
	RunE: runE(runCluster),
}

func init() {
	rootCmd.AddCommand(clusterCmd)
}
