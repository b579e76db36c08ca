package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/outwriter"
	"github.com/huangsam/gitpulse/internal/store"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// logger is the process logger. It writes to stderr only.
var logger = contract.DiscardLogger()

// db is the store opened by sharedSetup and closed by Execute.
var db *store.Store

// engine is the engine wired by sharedSetup.
var engine *core.Engine

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "gitpulse",
	Short: "Collect and analyze Git activity.",
	Long: `GitPulse collects commits from Git repositories, classifies them, links them to
work sessions and surfaces hotspots and risky commits.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in .env, the config file and ENV variables if set.
func initConfig() {
	// A missing .env file is the common case
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		contract.LogWarn("Cannot load .env file", err)
	}

	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".gitpulse")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("GITPULSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("db-backend", "sqlite")
	viper.SetDefault("db-connect", "")
	viper.SetDefault("batch-size", contract.DefaultBatchSize)
	viper.SetDefault("handle-cache-ttl", contract.DefaultHandleCacheTTL.String())
	viper.SetDefault("handle-cache-size", contract.DefaultHandleCacheSize)
	viper.SetDefault("default-branch", contract.DefaultDefaultBranch)
	viper.SetDefault("author-match", "none")
	viper.SetDefault("log-level", logrus.WarnLevel.String())
	viper.SetDefault("log-format", "text")
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", "text")
	viper.SetDefault("color", "yes")
}

// loadConfig merges defaults, file, env and flags into cfg and builds the logger.
func loadConfig() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	logger = contract.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	return nil
}

// storeSetup loads configuration and opens the store. It does not touch Git.
func storeSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	opened, err := store.Open(rootCtx, cfg.DBBackend, cfg.DBConnect)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	db = opened
	logger.WithField("backend", cfg.DBBackend).Debug("store opened")
	return nil
}

// sharedSetup opens the store and wires the engine.
func sharedSetup(cmd *cobra.Command, args []string) error {
	if err := storeSetup(cmd, args); err != nil {
		return err
	}
	git := contract.NewLimitedGitClient(cfg.GitRate)
	engine = core.NewEngine(git, db, db, logger, cfg)
	return nil
}

// projectID resolves the project flag, falling back to the current directory name.
func projectID() (string, error) {
	if p := strings.TrimSpace(viper.GetString("project")); p != "" {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("cannot resolve project: %w", err)
	}
	return filepath.Base(wd), nil
}

// newOutWriter returns the writer for command results.
func newOutWriter() *outwriter.OutWriter {
	return outwriter.NewOutWriter(cfg)
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()
	return rootCmd.Execute()
}
