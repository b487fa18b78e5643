package loader

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy

	richPolicyOnce sync.Once
	richPolicy     *bluemonday.Policy
)

// sanitizeText strips all markup and returns plain text. Used for labels,
// placeholders and titles. The policy escapes its output, so entities are
// decoded back; renderers escape plain text themselves.
func sanitizeText(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(strings.TrimSpace(raw))))
}

// sanitizeRich keeps inline formatting and links. Used for descriptions.
// The result is an HTML fragment and stays escaped.
func sanitizeRich(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	richPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("strong", "em", "b", "i", "code", "br", "p", "ul", "ol", "li")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		richPolicy = policy
	})
	return strings.TrimSpace(richPolicy.Sanitize(trimmed))
}
