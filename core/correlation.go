package core

import (
	"context"
	"time"

	"github.com/huangsam/gitpulse/core/correlate"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/sirupsen/logrus"
)

// CorrelateSessions scores every stored commit authored since the given time
// against every session overlapping that window, and persists candidates whose
// confidence reaches threshold. Stored links only ever improve. A zero threshold
// selects the default.
func (e *Engine) CorrelateSessions(ctx context.Context, projectID string, since *time.Time, threshold float64) (schema.CorrelationResult, error) {
	details := map[string]any{"project_id": projectID, "threshold": threshold}
	if since != nil {
		details["since"] = since.UTC().Format(time.RFC3339)
	}
	if threshold < 0 || threshold > 1 {
		return schema.CorrelationResult{}, contract.NewEngineError(contract.KindCorrelationFailed, contract.CodeCorrelationFailed,
			"confidence threshold must be between 0 and 1", nil).WithDetails(details)
	}
	if _, err := e.handle(ctx, projectID); err != nil {
		return schema.CorrelationResult{}, err
	}
	if e.sessions == nil {
		return schema.CorrelationResult{}, contract.NewEngineError(contract.KindCorrelationFailed, contract.CodeCorrelationFailed,
			"no session directory configured", nil).WithDetails(details)
	}

	commits, _, err := e.store.QueryCommits(ctx, schema.CommitFilter{ProjectID: projectID, Since: since})
	if err != nil {
		return schema.CorrelationResult{}, fail(err, contract.KindCorrelationFailed, contract.CodeCorrelationFailed, "failed to load commits", details)
	}
	var sessionsSince *time.Time
	if since != nil {
		t := since.Add(-correlate.MaxProximityMinutes * time.Minute)
		sessionsSince = &t
	}
	sessions, err := e.sessions.ListSessions(ctx, projectID, sessionsSince)
	if err != nil {
		return schema.CorrelationResult{}, fail(err, contract.KindCorrelationFailed, contract.CodeCorrelationFailed, "failed to load sessions", details)
	}

	scorer := correlate.NewScorer(e.matcher, threshold)
	scorer.Now = e.now
	result := schema.CorrelationResult{
		Stats: schema.CorrelationStats{CommitsEvaluated: len(commits), SessionsEvaluated: len(sessions)},
	}
	for _, commit := range commits {
		if err := ctx.Err(); err != nil {
			return schema.CorrelationResult{}, fail(err, contract.KindCorrelationFailed, contract.CodeCorrelationFailed, "correlation cancelled", details)
		}
		for _, session := range sessions {
			result.Stats.PairsEvaluated++
			candidate, ok := scorer.Evaluate(commit, session)
			if !ok {
				continue
			}
			correlate.Accumulate(&result.Stats, candidate)
			if candidate.Link.HighConfidence() {
				result.HighConfidenceLinks++
			}
			outcome, err := e.store.UpsertLinkIfImproved(ctx, candidate.Link)
			if err != nil {
				details["sha"] = commit.SHA
				details["session_id"] = session.ID
				return schema.CorrelationResult{}, fail(err, contract.KindCorrelationFailed, contract.CodeCorrelationFailed, "failed to store link", details)
			}
			switch outcome {
			case schema.LinkCreated:
				result.LinksCreated++
			case schema.LinkUpdated:
				result.LinksUpdated++
			default:
				result.LinksUnchanged++
			}
		}
	}

	e.log.WithFields(logrus.Fields{
		"project": projectID,
		"created": result.LinksCreated,
		"updated": result.LinksUpdated,
		"high":    result.HighConfidenceLinks,
	}).Info("correlation finished")
	return result, nil
}
