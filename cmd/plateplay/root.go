package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abrezinsky/plateplay/internal/config"
	"github.com/abrezinsky/plateplay/internal/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "plateplay",
		Short: "Multilingual digital menu boards",
		Long: `PlatePlay serves multilingual digital menu boards with live sold-out
updates, anonymous reviews, time-based promotions and shareable links.

Running plateplay without a subcommand starts the server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (YAML, TOML or JSON)")
	pf.String("db", "plateplay.db", "SQLite database path")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", logger.FormatText, "log format: text or json")

	addServeFlags(root.Flags())

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the menu server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	addServeFlags(serve.Flags())

	root.AddCommand(
		serve,
		newExportCmd(),
		newImportCmd(),
		newSeedCmd(),
		newCoverageCmd(),
		newVersionCmd(),
	)
	return root
}

func addServeFlags(fs *pflag.FlagSet) {
	fs.Int("port", 8080, "HTTP server port")
	fs.StringSlice("owner", nil, "board owner as name[:password], repeatable (password generated if omitted)")
	fs.String("base-url", "", "public base URL used in share links and QR codes")
	fs.String("nats-url", "", "NATS server for relaying board updates between instances")
	fs.Duration("backup-interval", 0, "how often to back up boards (0 disables)")
	fs.String("backup-dir", "", "directory for periodic backups")
	fs.String("backup-s3-bucket", "", "S3 bucket for periodic backups")
	fs.String("backup-s3-region", "us-east-1", "S3 region")
	fs.String("backup-s3-endpoint", "", "S3-compatible endpoint URL")
	fs.String("backup-s3-key", "plateplay/boards.jsonl", "S3 object key")
	fs.Bool("no-keyboard", false, "disable keyboard shortcuts")
}

// loadConfig merges cmd's flags, the environment and the config file
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	if err := config.BindFlags(v, cmd); err != nil {
		return nil, err
	}
	cfgFile, _ := cmd.Flags().GetString("config")
	return config.Load(v, cfgFile)
}

func newCommandLogger(cmd *cobra.Command, cfg *config.Config) *logger.SlogLogger {
	return logger.NewWithOptions(cmd.ErrOrStderr(), logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "plateplay %s\n", version)
		},
	}
}
