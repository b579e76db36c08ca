// Package cmd defines the command-line interface for gitpulse.
package cmd

import (
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(branchesCmd)
	rootCmd.AddCommand(correlateCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(hotspotsCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	sessionsCmd.AddCommand(sessionsImportCmd)

	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbClearCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("project", "p", "", "Project id (defaults to the current directory name)")
	rootCmd.PersistentFlags().String("db-backend", "sqlite", "Store backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string (file path for sqlite)")
	rootCmd.PersistentFlags().Int("batch-size", contract.DefaultBatchSize, "Commits processed per collection batch")
	rootCmd.PersistentFlags().Float64("git-rate", 0, "Maximum git processes started per second (0 = unlimited)")
	rootCmd.PersistentFlags().String("handle-cache-ttl", contract.DefaultHandleCacheTTL.String(), "How long a repository handle stays cached")
	rootCmd.PersistentFlags().Int("handle-cache-size", contract.DefaultHandleCacheSize, "Maximum number of cached repository handles")
	rootCmd.PersistentFlags().String("default-branch", contract.DefaultDefaultBranch, "Fallback default branch name")
	rootCmd.PersistentFlags().Bool("file-sizes", false, "Record blob sizes of changed files")
	rootCmd.PersistentFlags().String("author-match", "none", "Session author matching: none or email")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	bindFlags("root", rootCmd.PersistentFlags())

	// Command-local flags are read from the command itself, not from Viper.
	initCmd.Flags().String("remote-url", "", "Remote URL to record with the project")

	collectCmd.Flags().Int("limit", contract.DefaultCollectLimit, "Maximum number of commits to read")
	collectCmd.Flags().String("since", "", "Only commits after this time (ISO8601, '3 days ago', 'last monday')")
	collectCmd.Flags().String("branch", "", "Branch or ref to walk (default all refs)")

	recentCmd.Flags().Int("hours", contract.DefaultRecentHours, "Window size in hours")
	recentCmd.Flags().String("branch", "", "Only commits attributed to this branch")
	recentCmd.Flags().String("author", "", "Author name or email substring")

	branchesCmd.Flags().Bool("remote", false, "Include remote-tracking branches")

	correlateCmd.Flags().String("since", "", "Only commits after this time")
	correlateCmd.Flags().Float64("threshold", contract.DefaultConfidenceThreshold, "Minimum confidence to store a link")

	queryCmd.Flags().String("since", "", "Only commits after this time")
	queryCmd.Flags().String("until", "", "Only commits before this time")
	queryCmd.Flags().String("author", "", "Author name or email substring")
	queryCmd.Flags().String("branch", "", "Branch name")
	queryCmd.Flags().StringSlice("type", nil, "Commit types to include (repeatable or comma separated)")
	queryCmd.Flags().String("merge", "any", "Merge filter: any or true or false")
	queryCmd.Flags().Bool("breaking", false, "Only breaking changes")
	queryCmd.Flags().String("message", "", "Commit message substring")
	queryCmd.Flags().String("path", "", "Only commits touching files under this path")
	queryCmd.Flags().IntP("limit", "l", contract.DefaultQueryLimit, "Page size")
	queryCmd.Flags().Int("offset", 0, "Page offset")

	hotspotsCmd.Flags().String("since", "", "Only changes after this time")
	hotspotsCmd.Flags().Int("min-changes", contract.DefaultHotspotMinChanges, "Minimum changes for a file to qualify")
	hotspotsCmd.Flags().IntP("limit", "l", contract.DefaultHotspotLimit, "Maximum number of hotspots")

	dbMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	dbExportCmd.Flags().String("output-dir", ".", "Directory to write the Parquet files to")
}

// bindFlags binds a flag set to Viper or exits.
func bindFlags(name string, flags *pflag.FlagSet) {
	if err := viper.BindPFlags(flags); err != nil {
		contract.LogFatal("Error binding "+name+" flags", err)
	}
}
