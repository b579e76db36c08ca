package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/gitpulse/schema"
)

func initPairs(res schema.InitResult) []keyValue {
	return []keyValue{
		{"project_id", "Project", res.ProjectID},
		{"repo_root", "Root", res.RepoRoot},
		{"default_branch", "Default branch", res.DefaultBranch},
		{"branch_count", "Branches", strconv.Itoa(res.BranchCount)},
		{"commits_collected", "Commits collected", strconv.Itoa(res.CommitsCollected)},
		{"current_branch", "Checked out", res.Status.Branch},
		{"working_tree", "Working tree", describeStatus(res.Status)},
	}
}

// describeStatus summarizes a working tree in a few words.
func describeStatus(st schema.RepoStatus) string {
	var parts []string
	if st.Clean {
		parts = append(parts, "clean")
	}
	for _, c := range []struct {
		n    int
		word string
	}{{st.Staged, "staged"}, {st.Modified, "modified"}, {st.Untracked, "untracked"}} {
		if c.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c.n, c.word))
		}
	}
	if st.Ahead > 0 {
		parts = append(parts, fmt.Sprintf("ahead %d", st.Ahead))
	}
	if st.Behind > 0 {
		parts = append(parts, fmt.Sprintf("behind %d", st.Behind))
	}
	return strings.Join(parts, ", ")
}

func collectSummaryPairs(res schema.CollectResult) []keyValue {
	return []keyValue{
		{"commits_seen", "Commits seen", strconv.Itoa(res.CommitsSeen)},
		{"commits_collected", "Commits collected", strconv.Itoa(res.CommitsCollected)},
		{"already_stored", "Already stored", strconv.Itoa(res.AlreadyStored)},
		{"dependency_commits", "Dependency commits skipped", strconv.Itoa(res.DependencyCommits)},
		{"file_changes_tracked", "File changes tracked", strconv.Itoa(res.FileChangesTracked)},
		{"branches_updated", "Branches updated", strconv.Itoa(res.BranchesUpdated)},
		{"batches", "Batches", strconv.Itoa(res.Batches)},
		{"errors", "Errors", strconv.Itoa(len(res.Errors))},
	}
}

// collectPairs is the summary followed by one entry per batch error.
func collectPairs(res schema.CollectResult) []keyValue {
	pairs := collectSummaryPairs(res)
	for i, e := range res.Errors {
		pairs = append(pairs, keyValue{
			Key:   fmt.Sprintf("error_%d", i+1),
			Label: fmt.Sprintf("Error %d", i+1),
			Value: describeBatchError(e),
		})
	}
	return pairs
}

// describeBatchError renders a batch error on one line.
func describeBatchError(e schema.BatchError) string {
	if e.Batch == 0 {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] batch %d at %s (%d processed, %d skipped): %s",
		e.Code, e.Batch, schema.ShortSHA(e.FailedSHA), e.Processed, e.Skipped, e.Message)
}

// writeCollectTable prints the collection summary and a table of batch errors.
func writeCollectTable(w io.Writer, res schema.CollectResult, duration time.Duration) error {
	if err := writeKeyValueTable(w, "Collection finished", collectSummaryPairs(res)); err != nil {
		return err
	}
	if len(res.Errors) > 0 {
		data := make([][]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			batch, sha := "-", "-"
			if e.Batch > 0 {
				batch, sha = strconv.Itoa(e.Batch), schema.ShortSHA(e.FailedSHA)
			}
			data = append(data, []string{batch, sha, strconv.Itoa(e.Processed), strconv.Itoa(e.Skipped), e.Code, e.Message})
		}
		if err := renderTable(w, []string{"Batch", "SHA", "Processed", "Skipped", "Code", "Message"}, data); err != nil {
			return err
		}
	}
	if duration > 0 {
		_, err := fmt.Fprintf(w, "Collected in %v (%s file changes)\n", duration.Round(time.Millisecond), humanize.Comma(int64(res.FileChangesTracked)))
		return err
	}
	return nil
}

func correlationPairs(res schema.CorrelationResult) []keyValue {
	return []keyValue{
		{"links_created", "Links created", strconv.Itoa(res.LinksCreated)},
		{"links_updated", "Links updated", strconv.Itoa(res.LinksUpdated)},
		{"links_unchanged", "Links unchanged", strconv.Itoa(res.LinksUnchanged)},
		{"high_confidence_links", "High confidence links", strconv.Itoa(res.HighConfidenceLinks)},
		{"commits_evaluated", "Commits evaluated", strconv.Itoa(res.Stats.CommitsEvaluated)},
		{"sessions_evaluated", "Sessions evaluated", strconv.Itoa(res.Stats.SessionsEvaluated)},
		{"pairs_evaluated", "Pairs evaluated", strconv.Itoa(res.Stats.PairsEvaluated)},
		{"candidates", "Candidates", strconv.Itoa(res.Stats.Candidates)},
		{"within_hour", "Within an hour", strconv.Itoa(res.Stats.WithinHour)},
		{"author_matches", "Author matches", strconv.Itoa(res.Stats.AuthorMatches)},
	}
}
