package classify

import (
	"regexp"
	"strings"

	"github.com/huangsam/gitpulse/schema"
)

var (
	issueRe    = regexp.MustCompile(`(?:^|[^\w&/])#(\d+)\b`)
	jiraRe     = regexp.MustCompile(`\b([A-Z][A-Z0-9]+-\d+)\b`)
	closingRe  = regexp.MustCompile(`(?i)\b(?:close[sd]?|fix(?:e[sd])?|resolve[sd]?)\s*:?\s+#(\d+)\b`)
	coAuthorRe = regexp.MustCompile(`(?im)^co-authored-by:\s*(.+?)\s*<([^>]+)>\s*$`)
)

// ExtractTickets returns issue numbers like "#123" and keys like "PROJ-123", de-duplicated
// in order of appearance.
func ExtractTickets(text string) []string {
	var tickets []string
	for _, m := range issueRe.FindAllStringSubmatch(text, -1) {
		tickets = append(tickets, "#"+m[1])
	}
	for _, m := range jiraRe.FindAllStringSubmatch(text, -1) {
		tickets = append(tickets, m[1])
	}
	return schema.Dedupe(tickets)
}

// ExtractClosingRefs returns the issues a message closes, e.g. "Fixes #12".
func ExtractClosingRefs(text string) []string {
	var refs []string
	for _, m := range closingRe.FindAllStringSubmatch(text, -1) {
		refs = append(refs, "#"+m[1])
	}
	return schema.Dedupe(refs)
}

// ExtractCoAuthors parses Co-authored-by trailers. Repeated emails are kept once.
func ExtractCoAuthors(text string) []schema.CoAuthor {
	var out []schema.CoAuthor
	seen := make(map[string]struct{})
	for _, m := range coAuthorRe.FindAllStringSubmatch(text, -1) {
		key := strings.ToLower(m[2])
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, schema.CoAuthor{Name: m[1], Email: m[2]})
	}
	return out
}

// signatureStatuses names the %G? codes.
var signatureStatuses = map[string]string{
	"G": "good",
	"B": "bad",
	"U": "good-unknown-validity",
	"X": "expired",
	"Y": "expired-key",
	"R": "revoked-key",
	"E": "unverifiable",
	"N": "none",
}

// Signature converts git's signature placeholders into a SignatureInfo.
func Signature(code, signer, key string) schema.SignatureInfo {
	status, ok := signatureStatuses[code]
	if !ok {
		status = "none"
	}
	return schema.SignatureInfo{
		Status:   status,
		Signer:   signer,
		Key:      key,
		Verified: code == "G" || code == "U",
	}
}
