// Package main implements the lvtree CLI: building forests from flat record
// files and serving the same operations over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/lvtree/internal/config"
	"github.com/katalvlaran/lvtree/internal/logging"
	"github.com/katalvlaran/lvtree/internal/metrics"
	"github.com/katalvlaran/lvtree/internal/service"
)

// version information
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	logLevel   string
	format     string
}

// runtime is what every command needs after flags are parsed.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	forester *service.Forester
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "lvtree",
		Short: "Build forests from flat parent-referencing records",
		Long: `lvtree organises flat records that reference their parent by id into
ordered trees.

Records are read as JSON or YAML, either a top-level list or an object with a
"records" list:

  [{"id": "1"}, {"id": "2", "parent_id": "1"}]`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.format, "format", "", "record format override (json, yaml)")

	cmd.AddCommand(newBuildCmd(flags))
	cmd.AddCommand(newPathCmd(flags))
	cmd.AddCommand(newSubtreeCmd(flags))
	cmd.AddCommand(newServeCmd(flags))

	return cmd
}

// setup loads configuration and wires the logger, metrics and service.
func setup(cmd *cobra.Command, flags *rootFlags) (*runtime, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	logger, err := logging.NewWithWriter(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	reg := prometheus.NewRegistry()
	forester, err := service.New(cfg.Tree, logger, metrics.New(reg))
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		forester: forester,
	}, nil
}
