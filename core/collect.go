package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/gitpulse/core/classify"
	"github.com/huangsam/gitpulse/core/filechange"
	"github.com/huangsam/gitpulse/core/gitlog"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/sirupsen/logrus"
)

// CollectOptions bounds one collection run.
type CollectOptions struct {
	Limit  int
	Since  *time.Time
	Branch string
}

// InitializeRepository registers the repository at path as projectID and runs a
// first collection. An empty projectID defaults to the name of the repository root.
func (e *Engine) InitializeRepository(ctx context.Context, projectID string, path string, remoteURL string) (schema.InitResult, error) {
	details := map[string]any{"project_id": projectID, "repo_path": path}
	if path == "" {
		return schema.InitResult{}, contract.NewEngineError(contract.KindPathInvalid, contract.CodeInvalidPath,
			"repository path is required", nil).WithDetails(details)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return schema.InitResult{}, fail(err, contract.KindPathInvalid, contract.CodeInvalidPath, "invalid repository path", details)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is not a directory", abs)
		}
		return schema.InitResult{}, fail(err, contract.KindPathInvalid, contract.CodeInvalidPath, "repository path does not exist", details)
	}
	root, err := e.git.GetRepoRoot(ctx, abs)
	if err != nil {
		return schema.InitResult{}, fail(err, contract.KindPathInvalid, contract.CodeInvalidPath, "path is not a git repository", details)
	}
	if projectID == "" {
		projectID = filepath.Base(root)
		details["project_id"] = projectID
	}
	log := e.log.WithFields(logrus.Fields{"project": projectID, "root": root})

	defaultBranch, err := e.git.GetDefaultBranch(ctx, root)
	if err != nil || defaultBranch == "" {
		log.WithError(err).Debug("falling back to configured default branch")
		defaultBranch = e.cfg.DefaultBranch
	}
	if remoteURL == "" {
		if remoteURL, err = e.git.GetRemoteURL(ctx, root); err != nil {
			log.WithError(err).Debug("no remote url")
			remoteURL = ""
		}
	}

	var status schema.RepoStatus
	if out, err := e.git.GetStatus(ctx, root); err != nil {
		log.WithError(err).Warn("failed to read repository status")
	} else {
		status = gitlog.ParseStatus(out)
	}

	project := schema.Project{ID: projectID, RepoPath: root, RemoteURL: remoteURL, DefaultBranch: defaultBranch}
	if err := e.store.UpsertProject(ctx, project); err != nil {
		return schema.InitResult{}, fail(err, contract.KindCollectionFailed, contract.CodeCollectionFailed, "failed to register project", details)
	}
	e.handles.invalidate(projectID)
	log.WithField("default_branch", defaultBranch).Info("registered repository")

	collected, err := e.CollectCommits(ctx, projectID, CollectOptions{Limit: contract.DefaultCollectLimit})
	if err != nil {
		return schema.InitResult{}, err
	}
	return schema.InitResult{
		ProjectID:        projectID,
		RepoRoot:         root,
		DefaultBranch:    defaultBranch,
		BranchCount:      collected.BranchesUpdated,
		CommitsCollected: collected.CommitsCollected,
		Status:           status,
	}, nil
}

// CollectCommits reads a bounded window of history and stores every commit that is
// neither stored yet nor a dependency commit. Commits are processed in sequential
// batches. A failure aborts the rest of its batch only; it is recorded in the
// result and the next batch still runs.
func (e *Engine) CollectCommits(ctx context.Context, projectID string, opts CollectOptions) (schema.CollectResult, error) {
	details := map[string]any{"project_id": projectID, "limit": opts.Limit, "branch": opts.Branch}
	h, err := e.handle(ctx, projectID)
	if err != nil {
		return schema.CollectResult{}, err
	}
	if opts.Limit <= 0 {
		opts.Limit = contract.DefaultCollectLimit
	}

	out, err := e.git.GetCommitLog(ctx, h.Root, contract.LogOptions{Limit: opts.Limit, Since: opts.Since, Branch: opts.Branch})
	if err != nil {
		return schema.CollectResult{}, fail(err, contract.KindCollectionFailed, contract.CodeCollectionFailed, "failed to read commit log", details)
	}
	raws, err := gitlog.ParseCommitLog(out)
	if err != nil {
		return schema.CollectResult{}, fail(err, contract.KindCollectionFailed, contract.CodeCollectionFailed, "failed to parse commit log", details)
	}

	result := schema.CollectResult{CommitsSeen: len(raws), Errors: []schema.BatchError{}}
	batchSize := max(e.cfg.BatchSize, 1)
	log := e.log.WithField("project", projectID)
	log.WithField("commits", len(raws)).Info("collecting commits")

	for start := 0; start < len(raws); start += batchSize {
		if err := ctx.Err(); err != nil {
			return result, fail(err, contract.KindCollectionFailed, contract.CodeCollectionFailed, "collection cancelled", details)
		}
		batch := raws[start:min(start+batchSize, len(raws))]
		result.Batches++
		processed, err := e.collectBatch(ctx, h, batch, &result)
		if err != nil {
			batchErr := schema.BatchError{
				Batch:     result.Batches,
				FailedSHA: batch[processed].SHA,
				Processed: processed,
				Skipped:   len(batch) - processed - 1,
				Code:      string(contract.CodeBatchFailed),
				Message:   err.Error(),
			}
			result.Errors = append(result.Errors, batchErr)
			log.WithFields(logrus.Fields{
				"batch": batchErr.Batch,
				"sha":   schema.ShortSHA(batchErr.FailedSHA),
			}).WithError(err).Warn("batch failed")
		}
	}

	branches, err := e.syncBranches(ctx, h)
	if err != nil {
		result.Errors = append(result.Errors, schema.BatchError{
			Code:    string(contract.CodeCollectionFailed),
			Message: fmt.Sprintf("branch sync failed: %v", err),
		})
		log.WithError(err).Warn("branch sync failed")
	}
	result.BranchesUpdated = branches

	log.WithFields(logrus.Fields{
		"collected":  result.CommitsCollected,
		"stored":     result.AlreadyStored,
		"dependency": result.DependencyCommits,
		"errors":     len(result.Errors),
	}).Info("collection finished")
	return result, nil
}

// collectBatch stores the commits of one batch in order and returns how many were
// handled before an error stopped it.
func (e *Engine) collectBatch(ctx context.Context, h *repoHandle, batch []gitlog.RawCommit, result *schema.CollectResult) (int, error) {
	for i, raw := range batch {
		log := e.log.WithFields(logrus.Fields{"project": h.Project.ID, "sha": raw.ShortSHA})

		exists, err := e.store.CommitExists(ctx, h.Project.ID, raw.SHA)
		if err != nil {
			return i, err
		}
		if exists {
			result.AlreadyStored++
			log.Debug("commit already stored")
			continue
		}

		commit, changes, err := e.buildCommit(ctx, h, raw)
		if err != nil {
			return i, err
		}

		paths := make([]string, 0, len(changes))
		for _, fc := range changes {
			paths = append(paths, fc.FilePath)
		}
		if dep, reason := classify.IsDependencyCommit(classify.DependencyCheck{
			Message:      raw.Subject + "\n" + raw.Body,
			FilesChanged: commit.FilesChanged,
			Insertions:   commit.Insertions,
			Paths:        paths,
		}); dep {
			result.DependencyCommits++
			log.WithField("reason", reason).Debug("skipping dependency commit")
			continue
		}

		inserted, err := e.store.SaveCommit(ctx, commit, changes)
		if err != nil {
			return i, err
		}
		if !inserted {
			result.AlreadyStored++
			log.Debug("commit stored concurrently")
			continue
		}
		result.CommitsCollected++
		result.FileChangesTracked += len(changes)
	}
	return len(batch), nil
}

// buildCommit classifies a raw commit and analyzes its file changes.
func (e *Engine) buildCommit(ctx context.Context, h *repoHandle, raw gitlog.RawCommit) (*schema.Commit, []schema.FileChange, error) {
	isMerge := len(raw.Parents) > 1
	files := raw.Files
	if isMerge && len(files) == 0 {
		// the log prints no numstat for merges
		out, err := e.git.GetCommitDiffStats(ctx, h.Root, raw.Parents[0], raw.SHA)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to diff merge commit %s: %w", raw.ShortSHA, err)
		}
		files = gitlog.ParseNumstat(out)
	}
	changes := filechange.AnalyzeAll(files)

	stats := schema.StatBlock{FilesChanged: len(changes)}
	for _, fc := range changes {
		stats.Insertions += fc.LinesAdded
		stats.Deletions += fc.LinesRemoved
		if fc.IsBinary {
			stats.BinaryFiles++
		}
	}

	msg := classify.Classify(raw.Subject, raw.Body)
	commit := &schema.Commit{
		ProjectID:      h.Project.ID,
		SHA:            raw.SHA,
		ShortSHA:       raw.ShortSHA,
		Message:        raw.Subject,
		Body:           raw.Body,
		Author:         raw.Author,
		Committer:      raw.Committer,
		ParentSHAs:     raw.Parents,
		IsMerge:        isMerge,
		BranchName:     e.primaryBranch(ctx, h, raw.SHA),
		FilesChanged:   stats.FilesChanged,
		Insertions:     stats.Insertions,
		Deletions:      stats.Deletions,
		Type:           msg.Type,
		BreakingChange: msg.Breaking,
		Tags:           msg.Tags,
		Analysis:       msg.Analysis,
		Signature:      classify.Signature(raw.SignatureStatus, raw.Signer, raw.SignKey),
		Stats:          stats,
	}
	if commit.ShortSHA == "" {
		commit.ShortSHA = schema.ShortSHA(raw.SHA)
	}
	if isMerge {
		targets := e.branchesContaining(ctx, h, raw.Parents[0])
		sources := e.branchesContaining(ctx, h, raw.Parents[1])
		commit.Merge = classify.BuildMergeInfo(raw.Parents, targets, sources, raw.Subject)
	}
	if e.cfg.FileSizes {
		e.fillFileSizes(ctx, h, raw.SHA, changes)
	}
	return commit, changes, nil
}

// primaryBranch attributes a commit to the first local branch containing it,
// or to the project's default branch when that cannot be resolved.
func (e *Engine) primaryBranch(ctx context.Context, h *repoHandle, sha string) string {
	return classify.PrimaryBranch(e.branchesContaining(ctx, h, sha), h.Project.DefaultBranch)
}

// branchesContaining lists branches containing sha. Failures yield no branches.
func (e *Engine) branchesContaining(ctx context.Context, h *repoHandle, sha string) []gitlog.BranchRef {
	out, err := e.git.GetBranchesContaining(ctx, h.Root, sha)
	if err != nil {
		e.log.WithFields(logrus.Fields{"project": h.Project.ID, "sha": schema.ShortSHA(sha)}).
			WithError(err).Debug("branch containment failed")
		return nil
	}
	return gitlog.ParseRefNames(out)
}

// fillFileSizes sets the blob size of every file still present after the commit.
func (e *Engine) fillFileSizes(ctx context.Context, h *repoHandle, sha string, changes []schema.FileChange) {
	var paths []string
	for _, fc := range changes {
		if fc.ChangeType != schema.ChangeDeleted {
			paths = append(paths, fc.FilePath)
		}
	}
	if len(paths) == 0 {
		return
	}
	out, err := e.git.GetFileSizes(ctx, h.Root, sha, paths)
	if err != nil {
		e.log.WithField("sha", schema.ShortSHA(sha)).WithError(err).Warn("failed to read file sizes")
		return
	}
	sizes := gitlog.ParseFileSizes(out)
	for i := range changes {
		if size, ok := sizes[changes[i].FilePath]; ok {
			changes[i].FileSizeBytes = &size
		}
	}
}

// syncBranches upserts every local and remote branch and returns how many were stored.
func (e *Engine) syncBranches(ctx context.Context, h *repoHandle) (int, error) {
	out, err := e.git.ListBranches(ctx, h.Root, true)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, ref := range gitlog.ParseBranchRefs(out) {
		count, err := e.git.CountCommits(ctx, h.Root, ref.FullRef)
		if err != nil {
			e.log.WithField("branch", ref.Name).WithError(err).Debug("failed to count branch commits")
		}
		first, err := e.git.GetFirstCommitTime(ctx, h.Root, ref.FullRef)
		if err != nil {
			e.log.WithField("branch", ref.Name).WithError(err).Debug("failed to read first branch commit")
		}
		branch := schema.Branch{
			ProjectID:       h.Project.ID,
			Name:            ref.Name,
			CurrentSHA:      ref.SHA,
			IsDefault:       !ref.Remote && ref.Name == h.Project.DefaultBranch,
			IsRemote:        ref.Remote,
			Type:            classify.BranchType(ref.Name),
			CommitCount:     count,
			FirstCommitDate: first,
			LastCommitDate:  ref.LastCommit,
		}
		if err := e.store.UpsertBranch(ctx, branch); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
