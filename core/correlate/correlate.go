// Package correlate scores how likely a commit was produced during a work session.
package correlate

import (
	"math"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/schema"
)

// Scoring constants.
const (
	MaxProximityMinutes     = 120.0
	CloseProximityMinutes   = 30.0
	NearProximityMinutes    = 60.0
	BaseConfidence          = 0.3
	CloseProximityBonus     = 0.4
	NearProximityBonus      = 0.2
	AuthorMatchBonus        = 0.3
	DefaultConfidenceCutoff = 0.3
)

// AuthorMatcher decides whether a commit author and a session author are the same person.
type AuthorMatcher interface {
	Match(commit schema.Commit, session schema.Session) bool
}

// NoAuthorMatch never matches. Commits and sessions carry no shared identity yet,
// so author resolution is left unimplemented and the bonus never applies.
type NoAuthorMatch struct{}

// Match always returns false.
func (NoAuthorMatch) Match(schema.Commit, schema.Session) bool { return false }

// EmailAuthorMatch compares the commit author email with the session author email.
type EmailAuthorMatch struct{}

// Match reports case-insensitive email equality. Sessions without an email never match.
func (EmailAuthorMatch) Match(commit schema.Commit, session schema.Session) bool {
	email := strings.TrimSpace(session.AuthorEmail)
	return email != "" && strings.EqualFold(email, strings.TrimSpace(commit.Author.Email))
}

// NewAuthorMatcher returns the matcher for a configured mode.
func NewAuthorMatcher(mode schema.AuthorMatchMode) AuthorMatcher {
	if mode == schema.EmailAuthorMatch {
		return EmailAuthorMatch{}
	}
	return NoAuthorMatch{}
}

// Proximity returns the minutes between at and the session window. It is 0 inside
// [start, end]; an open session ends at now.
func Proximity(at time.Time, session schema.Session, now time.Time) float64 {
	start := session.StartedAt
	end := now
	if session.EndedAt != nil {
		end = *session.EndedAt
	}
	if !at.Before(start) && !at.After(end) {
		return 0
	}
	toStart := math.Abs(at.Sub(start).Minutes())
	toEnd := math.Abs(at.Sub(end).Minutes())
	return math.Min(toStart, toEnd)
}

// Confidence scores a proximity and author match, rounded to two decimals.
// ok is false past the hard cutoff.
func Confidence(proximity float64, authorMatch bool) (float64, bool) {
	if proximity > MaxProximityMinutes {
		return 0, false
	}
	confidence := BaseConfidence
	switch {
	case proximity <= CloseProximityMinutes:
		confidence += CloseProximityBonus
	case proximity <= NearProximityMinutes:
		confidence += NearProximityBonus
	}
	if authorMatch {
		confidence += AuthorMatchBonus
	}
	return math.Round(math.Min(confidence, 1.0)*100) / 100, true
}

// Candidate is an evaluated link that passed the threshold.
type Candidate struct {
	Link      schema.CommitSessionLink
	Proximity float64
}

// Scorer evaluates commit and session pairs.
type Scorer struct {
	Matcher   AuthorMatcher
	Threshold float64
	Now       func() time.Time
}

// NewScorer returns a scorer with the given matcher and threshold. A non-positive
// threshold selects DefaultConfidenceCutoff.
func NewScorer(matcher AuthorMatcher, threshold float64) *Scorer {
	if matcher == nil {
		matcher = NoAuthorMatch{}
	}
	if threshold <= 0 {
		threshold = DefaultConfidenceCutoff
	}
	return &Scorer{Matcher: matcher, Threshold: threshold, Now: time.Now}
}

// Evaluate scores one pair. It returns false when no link should be produced.
func (s *Scorer) Evaluate(commit schema.Commit, session schema.Session) (Candidate, bool) {
	proximity := Proximity(commit.Author.Date, session, s.Now())
	authorMatch := s.Matcher.Match(commit, session)
	confidence, ok := Confidence(proximity, authorMatch)
	if !ok || confidence < s.Threshold {
		return Candidate{}, false
	}

	linkType := schema.NearSessionLink
	if proximity == 0 {
		linkType = schema.DuringSessionLink
	}
	p := math.Round(proximity*100) / 100
	return Candidate{
		Link: schema.CommitSessionLink{
			CommitID:             commit.ID,
			SessionID:            session.ID,
			LinkType:             linkType,
			Confidence:           confidence,
			TimeProximityMinutes: &p,
			AuthorMatch:          authorMatch,
		},
		Proximity: proximity,
	}, true
}

// Accumulate adds one candidate to the run statistics.
func Accumulate(stats *schema.CorrelationStats, c Candidate) {
	stats.Candidates++
	if c.Link.AuthorMatch {
		stats.AuthorMatches++
	}
	if c.Proximity <= NearProximityMinutes {
		stats.WithinHour++
	}
}
