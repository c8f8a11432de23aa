// Command pprl runs privacy-preserving record linkage over party datasets.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hupe1980/pprl"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
	jsonLogs bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pprl",
	Short: "Multi-party privacy-preserving record linkage",
	Long: `pprl links records held by several parties using only their Bloom-filter
encodings. Party datasets, protocol parameters and the output target are read
from a YAML run configuration.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "run.yaml", "run configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "emit JSON logs")
}

func newLogger() (*pprl.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	if jsonLogs {
		return pprl.NewJSONLogger(level), nil
	}
	return pprl.NewTextLogger(level), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
