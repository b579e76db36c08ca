package cmd

import (
	"fmt"
	"strings"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/spf13/cobra"
)

// queryCmd filters stored commits.
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Filter stored commits.",
	Long: `Search stored commits by time, author, branch, type, merge status, breaking
changes, message text and touched paths. Results are paged with --limit and
--offset; the summary always covers the whole filtered set.

Examples:
  # Fixes and refactors from the last two weeks
  gitpulse query --since "2 weeks ago" --type fix,refactor

  # Breaking changes touching the API package
  gitpulse query --breaking --path internal/api/

  # Second page of merge commits as JSON
  gitpulse query --merge true --limit 20 --offset 20 --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		filter, err := commitFilter(cmd)
		if err != nil {
			contract.LogFatal("Invalid query", err)
		}
		res, err := engine.QueryCommits(rootCtx, filter)
		if err != nil {
			contract.LogFatal("Cannot query commits", err)
		}
		if err := newOutWriter().WriteQuery(res, filter); err != nil {
			contract.LogFatal("Cannot write output", err)
		}
	},
}

// hotspotsCmd ranks frequently changed files.
var hotspotsCmd = &cobra.Command{
	Use:   "hotspots",
	Short: "Show the most frequently changed files.",
	Long: `Rank files by how often they changed and how many people changed them, and
score each one for risk.

Examples:
  gitpulse hotspots --since "90 days ago"
  gitpulse hotspots --min-changes 5 --limit 10 --output csv --output-file hotspots.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		project, err := projectID()
		if err != nil {
			contract.LogFatal("Cannot resolve project", err)
		}
		minChanges, _ := cmd.Flags().GetInt("min-changes")
		limit, _ := cmd.Flags().GetInt("limit")
		since, err := sinceFlag(cmd, "since")
		if err != nil {
			contract.LogFatal("Invalid --since", err)
		}

		res, err := engine.GetHotspots(rootCtx, project, since, minChanges, limit)
		if err != nil {
			contract.LogFatal("Cannot compute hotspots", err)
		}
		if err := newOutWriter().WriteHotspots(res); err != nil {
			contract.LogFatal("Cannot write output", err)
		}
	},
}

// analyzeCmd shows one commit in detail.
var analyzeCmd = &cobra.Command{
	Use:   "analyze SHA",
	Short: "Show a commit with its file changes and complexity.",
	Long: `Show a stored commit, every file it changed and its complexity score.
Any unique SHA prefix works.

Examples:
  gitpulse analyze 3f9c2e1`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		project, err := projectID()
		if err != nil {
			contract.LogFatal("Cannot resolve project", err)
		}
		res, err := engine.GetCommitAnalysis(rootCtx, project, args[0])
		if err != nil {
			contract.LogFatal("Cannot analyze commit", err)
		}
		if err := newOutWriter().WriteAnalysis(res); err != nil {
			contract.LogFatal("Cannot write output", err)
		}
	},
}

// commitFilter builds a filter from the query flags.
func commitFilter(cmd *cobra.Command) (schema.CommitFilter, error) {
	project, err := projectID()
	if err != nil {
		return schema.CommitFilter{}, err
	}
	since, err := sinceFlag(cmd, "since")
	if err != nil {
		return schema.CommitFilter{}, fmt.Errorf("--since: %w", err)
	}
	until, err := sinceFlag(cmd, "until")
	if err != nil {
		return schema.CommitFilter{}, fmt.Errorf("--until: %w", err)
	}

	flags := cmd.Flags()
	author, _ := flags.GetString("author")
	branch, _ := flags.GetString("branch")
	types, _ := flags.GetStringSlice("type")
	mergeStr, _ := flags.GetString("merge")
	breaking, _ := flags.GetBool("breaking")
	message, _ := flags.GetString("message")
	path, _ := flags.GetString("path")
	limit, _ := flags.GetInt("limit")
	offset, _ := flags.GetInt("offset")

	filter := schema.CommitFilter{
		ProjectID:       project,
		Since:           since,
		Until:           until,
		Author:          author,
		Branch:          branch,
		BreakingOnly:    breaking,
		MessageContains: message,
		PathPrefix:      path,
		Limit:           limit,
		Offset:          offset,
	}
	filter.Types, err = schema.ParseCommitTypes(strings.Join(types, ","))
	if err != nil {
		return schema.CommitFilter{}, fmt.Errorf("--type: %w", err)
	}
	switch strings.ToLower(mergeStr) {
	case "", "any":
	case "true", "yes":
		merge := true
		filter.Merge = &merge
	case "false", "no":
		merge := false
		filter.Merge = &merge
	default:
		return schema.CommitFilter{}, fmt.Errorf("invalid --merge %q. must be any, true or false", mergeStr)
	}
	return filter, nil
}
