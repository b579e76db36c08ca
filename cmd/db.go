package cmd

import (
	"fmt"
	"sort"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/parquet"
	"github.com/huangsam/gitpulse/internal/store"
	"github.com/spf13/cobra"
)

// dbCmd focused on store management.
//
// Note: db subcommands never touch Git. migrate does not even open the store,
// because opening migrates to the latest version.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the commit store",
	Long: `Manage the relational store that holds projects, commits, branches, sessions and links.

Supported backends: SQLite (default), MySQL and PostgreSQL.

Subcommands:
  status  - Show backend, schema version and row counts
  clear   - Delete all rows owned by a project
  migrate - Move the schema to a given version
  export  - Write a project's data to Parquet files

Examples:
  gitpulse db status
  GITPULSE_DB_BACKEND=postgresql GITPULSE_DB_CONNECT="postgres://..." gitpulse db status`,
}

// dbStatusCmd shows store status.
var dbStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display store statistics and connection details",
	Args:    cobra.NoArgs,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := db.Status(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		if err := newOutWriter().WriteStatus(status); err != nil {
			contract.LogFatal("Cannot write output", err)
		}
	},
}

// dbClearCmd removes one project's rows.
var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored data for a project",
	Long: `Delete the project, its commits, file changes, branches, sessions and links.

Use this when the repository history was rewritten (rebase, force push) and the
stored commits no longer match.

Examples:
  gitpulse db clear --project api`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		project, err := projectID()
		if err != nil {
			contract.LogFatal("Cannot resolve project", err)
		}
		deleted, err := db.ClearProject(rootCtx, project)
		if err != nil {
			contract.LogFatal("Failed to clear project", err)
		}
		tables := make([]string, 0, len(deleted))
		for table := range deleted {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		for _, table := range tables {
			fmt.Printf("%-22s %d rows deleted\n", table, deleted[table])
		}
		fmt.Printf("Project %s cleared successfully.\n", project)
	},
}

// dbMigrateCmd moves the schema to a target version.
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the store schema",
	Long: `Apply or roll back schema migrations.

--target-version -1 migrates to the latest version, 0 rolls back every migration
and N moves to version N.

Examples:
  gitpulse db migrate
  gitpulse db migrate --target-version 0`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
	Run: func(cmd *cobra.Command, _ []string) {
		target, _ := cmd.Flags().GetInt("target-version")
		res, err := store.Migrate(cfg.DBBackend, cfg.DBConnect, target)
		if err != nil {
			contract.LogFatal("Failed to migrate store", err)
		}
		if !res.Changed {
			fmt.Printf("Schema already at version %d.\n", res.To)
			return
		}
		fmt.Printf("Schema migrated from version %d to %d.\n", res.From, res.To)
	},
}

// dbExportCmd writes a project's data to Parquet.
var dbExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a project's data to Parquet files",
	Long: `Write commits.parquet, file_changes.parquet and links.parquet for a project.

The files can be loaded by DuckDB, Spark, pandas and other columnar tools.

Examples:
  gitpulse db export --project api --output-dir ./export`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		project, err := projectID()
		if err != nil {
			contract.LogFatal("Cannot resolve project", err)
		}
		dir, _ := cmd.Flags().GetString("output-dir")
		res, err := parquet.ExportProject(rootCtx, db, project, dir)
		if err != nil {
			contract.LogFatal("Failed to export project", err)
		}
		files := make([]string, 0, len(res.Files))
		for file := range res.Files {
			files = append(files, file)
		}
		sort.Strings(files)
		for _, file := range files {
			fmt.Printf("Wrote %d rows to %s\n", res.Files[file], file)
		}
	},
}
