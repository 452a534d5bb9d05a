// Package main provides the ytbuddy admin CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/ytbuddy/internal/app"
	"github.com/johnquangdev/ytbuddy/pkg/config"
	"github.com/johnquangdev/ytbuddy/pkg/logger"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput switches from JSON to plain text output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if humanOutput {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		} else {
			_ = outputJSON(errorResponse{Error: err.Error()})
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ytbuddy",
	Short: "Ask questions about YouTube videos",
	Long: `ytbuddy answers questions about YouTube videos from their transcripts.

It uses the same configuration as the API server (.env and environment
variables). Commands print JSON unless --human is given.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

type errorResponse struct {
	Error string `json:"error"`
}

// outputJSON writes v as indented JSON to stdout
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// loadConfig loads configuration and a logger that only reports warnings
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Log.Level == "info" || cfg.Log.Level == "debug" {
		cfg.Log.Level = "warn"
	}
	zl, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, zl, nil
}

// withContainer builds the service container, runs fn and releases it
func withContainer(ctx context.Context, fn func(c *app.Container) error) error {
	cfg, zl, err := loadConfig()
	if err != nil {
		return err
	}
	defer zl.Sync()

	c, err := app.New(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer c.Close()

	return fn(c)
}
