package cmd

import (
	"time"

	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/spf13/cobra"
)

// initCmd registers a repository and collects its recent history.
var initCmd = &cobra.Command{
	Use:   "init [repo-path]",
	Short: "Register a repository and collect its recent commits.",
	Long: `Register a Git repository under a project id.

Records the repository root and default branch, stores every branch and collects
the most recent commits. Running init again on the same path is safe: stored
commits are skipped.

Examples:
  # Register the current directory
  gitpulse init

  # Register another checkout under an explicit project id
  gitpulse init ~/src/api --project api --remote-url git@github.com:acme/api.git`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(cmd *cobra.Command, args []string) {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}
		project, err := projectID()
		if err != nil {
			contract.LogFatal("Cannot resolve project", err)
		}
		remote, _ := cmd.Flags().GetString("remote-url")

		res, err := engine.InitializeRepository(rootCtx, project, path, remote)
		if err != nil {
			contract.LogFatal("Cannot initialize repository", err)
		}
		if err := newOutWriter().WriteInit(res); err != nil {
			contract.LogFatal("Cannot write output", err)
		}
	},
}

// collectCmd collects new commits for a registered project.
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect and classify new commits.",
	Long: `Read commits from the project's repository, classify them and store the new ones.

Commits are processed in batches. A failing commit aborts the rest of its batch
but later batches still run; the failures are listed in the output.

Examples:
  # Collect the last 500 commits
  gitpulse collect --limit 500

  # Collect only this week's commits on main
  gitpulse collect --since "last monday" --branch main`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		project, err := projectID()
		if err != nil {
			contract.LogFatal("Cannot resolve project", err)
		}
		limit, _ := cmd.Flags().GetInt("limit")
		branch, _ := cmd.Flags().GetString("branch")
		since, err := sinceFlag(cmd, "since")
		if err != nil {
			contract.LogFatal("Invalid --since", err)
		}

		start := time.Now()
		res, err := engine.CollectCommits(rootCtx, project, core.CollectOptions{Limit: limit, Since: since, Branch: branch})
		if err != nil {
			contract.LogFatal("Cannot collect commits", err)
		}
		if err := newOutWriter().WriteCollect(res, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write output", err)
		}
	},
}

// recentCmd lists commits from a recent time window.
var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show commits from the last N hours.",
	Long: `List stored commits whose author time falls in the last N hours, newest first.

Examples:
  gitpulse recent --hours 48
  gitpulse recent --branch main --author alice`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		project, err := projectID()
		if err != nil {
			contract.LogFatal("Cannot resolve project", err)
		}
		hours, _ := cmd.Flags().GetInt("hours")
		branch, _ := cmd.Flags().GetString("branch")
		author, _ := cmd.Flags().GetString("author")

		commits, err := engine.GetRecentCommits(rootCtx, project, hours, branch, author)
		if err != nil {
			contract.LogFatal("Cannot load recent commits", err)
		}
		if err := newOutWriter().WriteCommits(commits); err != nil {
			contract.LogFatal("Cannot write output", err)
		}
	},
}

// branchesCmd lists recorded branches.
var branchesCmd = &cobra.Command{
	Use:   "branches",
	Short: "Show the branches recorded for a project.",
	Long: `List the branches recorded by init and collect, with their type, tip and commit counts.

Examples:
  gitpulse branches
  gitpulse branches --remote --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		project, err := projectID()
		if err != nil {
			contract.LogFatal("Cannot resolve project", err)
		}
		remote, _ := cmd.Flags().GetBool("remote")

		branches, err := engine.GetBranchInfo(rootCtx, project, remote)
		if err != nil {
			contract.LogFatal("Cannot load branches", err)
		}
		if err := newOutWriter().WriteBranches(branches); err != nil {
			contract.LogFatal("Cannot write output", err)
		}
	},
}

// sinceFlag parses a time flag relative to now. An empty flag yields nil.
func sinceFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	value, _ := cmd.Flags().GetString(name)
	return contract.ParseSince(value, time.Now())
}
