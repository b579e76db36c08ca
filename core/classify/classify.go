// Package classify turns commit messages and diff stats into typed, tagged commits.
package classify

import (
	"regexp"
	"slices"
	"strings"

	"github.com/huangsam/gitpulse/schema"
)

// conventionalRe matches "type(scope)!: subject".
var conventionalRe = regexp.MustCompile(`^(\w+)(?:\(([^)]*)\))?(!)?:\s*(.+)$`)

// breakingRe matches the breaking change footer in either spelling.
var breakingRe = regexp.MustCompile(`BREAKING[ -]CHANGE`)

// conventionalTypes maps conventional commit types to commit types.
var conventionalTypes = map[string]schema.CommitType{
	"feat":     schema.FeatureCommit,
	"fix":      schema.FixCommit,
	"docs":     schema.DocsCommit,
	"style":    schema.StyleCommit,
	"refactor": schema.RefactorCommit,
	"test":     schema.TestCommit,
	"chore":    schema.ChoreCommit,
	"build":    schema.ChoreCommit,
	"ci":       schema.ChoreCommit,
	"perf":     schema.RefactorCommit,
	"revert":   schema.FixCommit,
}

// Rule pairs a predicate over the lowercased subject with the type it yields.
type Rule struct {
	Name  string
	Match func(subject string) bool
	Type  schema.CommitType
}

// hasPrefix builds a predicate that matches any of the prefixes.
func hasPrefix(prefixes ...string) func(string) bool {
	return func(subject string) bool {
		return slices.ContainsFunc(prefixes, func(p string) bool {
			return strings.HasPrefix(subject, p)
		})
	}
}

// HeuristicRules are evaluated in order for subjects that are not conventional commits.
// The first match wins.
var HeuristicRules = []Rule{
	{Name: "fix", Match: hasPrefix("fix"), Type: schema.FixCommit},
	{Name: "feature", Match: hasPrefix("feat", "feature", "add"), Type: schema.FeatureCommit},
	{Name: "docs", Match: hasPrefix("doc"), Type: schema.DocsCommit},
	{Name: "refactor", Match: hasPrefix("refactor"), Type: schema.RefactorCommit},
	{Name: "test", Match: hasPrefix("test"), Type: schema.TestCommit},
	{Name: "style", Match: hasPrefix("style", "format"), Type: schema.StyleCommit},
	{Name: "chore", Match: hasPrefix("chore", "build", "ci"), Type: schema.ChoreCommit},
	{Name: "merge", Match: hasPrefix("merge"), Type: schema.MergeCommit},
}

// Result is everything learned from one commit message.
type Result struct {
	Type     schema.CommitType
	Breaking bool
	Analysis schema.MessageAnalysis
	Tags     []string
}

// Classify derives the commit type, breaking flag, message analysis and tags.
// Every message gets exactly one type.
func Classify(subject, body string) Result {
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	full := subject
	if body != "" {
		full = subject + "\n\n" + body
	}

	res := Result{
		Type: schema.FeatureCommit,
		Analysis: schema.MessageAnalysis{
			Subject:       subject,
			SubjectLength: len(subject),
			HasBody:       body != "",
		},
	}

	matched := false
	if m := conventionalRe.FindStringSubmatch(subject); m != nil {
		rawType := strings.ToLower(m[1])
		if t, ok := conventionalTypes[rawType]; ok {
			matched = true
			res.Type = t
			res.Analysis.Conventional = true
			res.Analysis.RawType = rawType
			res.Analysis.Scope = strings.TrimSpace(m[2])
			res.Analysis.Subject = m[4]
			res.Breaking = m[3] == "!"
		}
	}
	if !matched {
		res.Type = ClassifySubject(subject)
	}
	if breakingRe.MatchString(full) {
		res.Breaking = true
	}

	res.Analysis.Tickets = ExtractTickets(full)
	res.Analysis.ClosesRefs = ExtractClosingRefs(full)
	res.Analysis.CoAuthors = ExtractCoAuthors(body)
	res.Tags = buildTags(res)
	return res
}

// ClassifySubject applies HeuristicRules to a free-form subject line.
func ClassifySubject(subject string) schema.CommitType {
	lower := strings.ToLower(strings.TrimSpace(subject))
	for _, r := range HeuristicRules {
		if r.Match(lower) {
			return r.Type
		}
	}
	return schema.FeatureCommit
}

// buildTags derives the semantic tags stored alongside a commit.
func buildTags(res Result) []string {
	tags := []string{string(res.Type)}
	a := res.Analysis
	if a.Conventional {
		tags = append(tags, "conventional")
		if a.Scope != "" {
			tags = append(tags, "scope:"+a.Scope)
		}
		if a.RawType == "revert" {
			tags = append(tags, "revert")
		}
	}
	if res.Breaking {
		tags = append(tags, "breaking")
	}
	if len(a.Tickets) > 0 {
		tags = append(tags, "ticket")
	}
	if len(a.ClosesRefs) > 0 {
		tags = append(tags, "closes-issue")
	}
	if len(a.CoAuthors) > 0 {
		tags = append(tags, "co-authored")
	}
	return schema.Dedupe(tags)
}
