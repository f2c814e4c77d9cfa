package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/junjidragonfox/soxkit/internal/config"
)

var (
	cfg        *config.Config
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "soxkit",
	Short:         "Convert XoulAI exports into TavernAI and SillyTavern formats",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		var err error
		cfg, err = config.LoadFromFile(configPath)
		return err
	},
}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "soxkit.yaml", "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return rootCmd.Execute()
}
