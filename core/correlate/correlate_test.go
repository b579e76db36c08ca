package correlate

import (
	"testing"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func session(startOffset, endOffset time.Duration) schema.Session {
	end := base.Add(endOffset)
	return schema.Session{ID: "s1", StartedAt: base.Add(startOffset), EndedAt: &end}
}

func commitAt(offset time.Duration) schema.Commit {
	return schema.Commit{ID: "c1", Author: schema.Identity{Email: "dev@example.com", Date: base.Add(offset)}}
}

func fixedScorer(matcher AuthorMatcher, threshold float64) *Scorer {
	s := NewScorer(matcher, threshold)
	s.Now = func() time.Time { return base.Add(10 * time.Hour) }
	return s
}

func TestProximity(t *testing.T) {
	s := session(0, time.Hour)
	now := base.Add(5 * time.Hour)

	assert.Equal(t, 0.0, Proximity(base, s, now))
	assert.Equal(t, 0.0, Proximity(base.Add(time.Hour), s, now))
	assert.Equal(t, 0.0, Proximity(base.Add(30*time.Minute), s, now))
	assert.Equal(t, 15.0, Proximity(base.Add(-15*time.Minute), s, now))
	assert.Equal(t, 90.0, Proximity(base.Add(150*time.Minute), s, now))
	assert.InDelta(t, 0.5, Proximity(base.Add(-30*time.Second), s, now), 1e-9)
}

func TestProximity_OpenSession(t *testing.T) {
	open := schema.Session{StartedAt: base}
	now := base.Add(3 * time.Hour)
	assert.Equal(t, 0.0, Proximity(base.Add(2*time.Hour), open, now))
	assert.Equal(t, 60.0, Proximity(now.Add(time.Hour), open, now))
}

func TestConfidence(t *testing.T) {
	testCases := []struct {
		name      string
		proximity float64
		author    bool
		want      float64
		ok        bool
	}{
		{"inside", 0, false, 0.7, true},
		{"close", 30, false, 0.7, true},
		{"near", 30.5, false, 0.5, true},
		{"hour", 60, false, 0.5, true},
		{"far", 61, false, 0.3, true},
		{"cutoff edge", 120, false, 0.3, true},
		{"past cutoff", 120.01, false, 0, false},
		{"inside with author", 0, true, 1.0, true},
		{"far with author", 90, true, 0.6, true},
		{"past cutoff with author", 121, true, 0, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Confidence(tc.proximity, tc.author)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

type alwaysMatch struct{}

func (alwaysMatch) Match(schema.Commit, schema.Session) bool { return true }

func TestEvaluate_CutoffIgnoresAuthor(t *testing.T) {
	s := fixedScorer(alwaysMatch{}, 0)
	_, ok := s.Evaluate(commitAt(3*time.Hour+time.Minute), session(0, time.Hour))
	assert.False(t, ok, "121 minutes after the session end is never linked")

	_, ok = s.Evaluate(commitAt(-121*time.Minute), session(0, time.Hour))
	assert.False(t, ok, "121 minutes before the session start is never linked")
}

func TestEvaluate_LinkTypes(t *testing.T) {
	s := fixedScorer(NoAuthorMatch{}, DefaultConfidenceCutoff)

	c, ok := s.Evaluate(commitAt(20*time.Minute), session(0, time.Hour))
	require.True(t, ok)
	assert.Equal(t, schema.DuringSessionLink, c.Link.LinkType)
	assert.Equal(t, 0.7, c.Link.Confidence)
	assert.False(t, c.Link.HighConfidence())
	require.NotNil(t, c.Link.TimeProximityMinutes)
	assert.Equal(t, 0.0, *c.Link.TimeProximityMinutes)
	assert.Equal(t, "c1", c.Link.CommitID)
	assert.Equal(t, "s1", c.Link.SessionID)

	c, ok = s.Evaluate(commitAt(time.Hour+45*time.Minute), session(0, time.Hour))
	require.True(t, ok)
	assert.Equal(t, schema.NearSessionLink, c.Link.LinkType)
	assert.Equal(t, 0.5, c.Link.Confidence)
	assert.Equal(t, 45.0, *c.Link.TimeProximityMinutes)
}

func TestEvaluate_Threshold(t *testing.T) {
	s := fixedScorer(NoAuthorMatch{}, 0.5)
	_, ok := s.Evaluate(commitAt(time.Hour+90*time.Minute), session(0, time.Hour))
	assert.False(t, ok)

	_, ok = s.Evaluate(commitAt(time.Hour+50*time.Minute), session(0, time.Hour))
	assert.True(t, ok)
}

func TestEvaluate_HighConfidenceWithAuthor(t *testing.T) {
	s := fixedScorer(EmailAuthorMatch{}, 0)
	sess := session(0, time.Hour)
	sess.AuthorEmail = "DEV@example.com"
	c, ok := s.Evaluate(commitAt(10*time.Minute), sess)
	require.True(t, ok)
	assert.True(t, c.Link.AuthorMatch)
	assert.Equal(t, 1.0, c.Link.Confidence)
	assert.True(t, c.Link.HighConfidence())
}

func TestAuthorMatchers(t *testing.T) {
	commit := commitAt(0)
	sess := schema.Session{AuthorEmail: "dev@example.com"}

	assert.False(t, NoAuthorMatch{}.Match(commit, sess))
	assert.True(t, EmailAuthorMatch{}.Match(commit, sess))
	assert.False(t, EmailAuthorMatch{}.Match(commit, schema.Session{}))

	assert.IsType(t, NoAuthorMatch{}, NewAuthorMatcher(schema.NoAuthorMatch))
	assert.IsType(t, NoAuthorMatch{}, NewAuthorMatcher(""))
	assert.IsType(t, EmailAuthorMatch{}, NewAuthorMatcher(schema.EmailAuthorMatch))
}

func TestAccumulate(t *testing.T) {
	var stats schema.CorrelationStats
	Accumulate(&stats, Candidate{Proximity: 0, Link: schema.CommitSessionLink{AuthorMatch: true}})
	Accumulate(&stats, Candidate{Proximity: 60})
	Accumulate(&stats, Candidate{Proximity: 61})
	assert.Equal(t, 3, stats.Candidates)
	assert.Equal(t, 1, stats.AuthorMatches)
	assert.Equal(t, 2, stats.WithinHour)
}
