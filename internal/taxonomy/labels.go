package taxonomy

import (
	"sort"
	"strings"

	"github.com/triagehq/triage-bot/internal/utils/text"
)

// moduleLabels maps module labels to the content keywords that trigger them.
// Kept as an ordered slice so suggestion runs are reproducible.
var moduleLabels = []struct {
	Label    string
	Keywords []string
}{
	{"module:auth", []string{"auth", "authentication", "login", "jwt", "token"}},
	{"module:api", []string{"api", "endpoint", "rest", "grpc", "service"}},
	{"module:ui", []string{"ui", "interface", "frontend", "dashboard", "web"}},
	{"module:database", []string{"database", "sql", "query", "migration", "schema"}},
	{"module:config", []string{"config", "configuration", "settings", "environment"}},
	{"module:metrics", []string{"metrics", "monitoring", "prometheus", "observability"}},
	{"module:cache", []string{"cache", "caching", "redis", "memory"}},
	{"module:queue", []string{"queue", "job", "task", "worker", "background"}},
	{"module:web", []string{"web", "http", "server", "handler", "middleware"}},
}

var typeLabels = []struct {
	Label    string
	Keywords []string
}{
	{"bug", []string{"bug", "error", "fix", "broken", "issue"}},
	{"enhancement", []string{"feature", "add", "implement", "new"}},
	{"testing", []string{"test", "testing", "spec", "validation"}},
	{"documentation", []string{"doc", "documentation", "readme", "guide"}},
}

// SuggestLabels proposes labels for an issue from its title, body and
// existing labels. Existing labels are always kept. Exactly one priority
// label is added when none is present. The result is sorted.
func SuggestLabels(issue *IssueInput) []string {
	content := text.CombinedText(issue.Title, issue.Body)

	suggested := make(map[string]bool, len(issue.Labels)+4)
	for _, l := range issue.Labels {
		suggested[l] = true
	}

	for _, m := range moduleLabels {
		if containsAny(content, m.Keywords) {
			suggested[m.Label] = true
		}
	}
	for _, t := range typeLabels {
		if containsAny(content, t.Keywords) {
			suggested[t.Label] = true
		}
	}

	if !hasPriorityLabel(suggested) {
		switch {
		case containsAny(content, []string{"urgent", "critical", "important", "asap"}):
			suggested["priority:high"] = true
		case containsAny(content, []string{"minor", "low", "nice to have"}):
			suggested["priority:low"] = true
		default:
			suggested["priority:medium"] = true
		}
	}

	out := make([]string, 0, len(suggested))
	for l := range suggested {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Priority buckets an issue into high, medium or low from title wording.
// The default is medium.
func Priority(title string) string {
	t := strings.ToLower(title)
	switch {
	case containsAny(t, []string{"critical", "urgent", "blocker", "breaking"}):
		return "high"
	case containsAny(t, []string{"enhancement", "feature", "improve"}):
		return "medium"
	case containsAny(t, []string{"fix", "bug", "error", "issue"}):
		return "medium"
	case containsAny(t, []string{"documentation", "docs", "comment"}):
		return "low"
	}
	return "medium"
}

// IssueType buckets an issue into bug, feature, docs, test, refactor or
// task from title wording. Earlier buckets win; the default is task.
func IssueType(title string) string {
	t := strings.ToLower(title)
	switch {
	case containsAny(t, []string{"bug", "fix", "error", "fail"}):
		return "bug"
	case containsAny(t, []string{"feature", "implement", "add"}):
		return "feature"
	case containsAny(t, []string{"documentation", "docs"}):
		return "docs"
	case containsAny(t, []string{"test", "testing"}):
		return "test"
	case containsAny(t, []string{"refactor", "clean", "improve"}):
		return "refactor"
	}
	return "task"
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func hasPriorityLabel(labels map[string]bool) bool {
	for l := range labels {
		if strings.HasPrefix(l, "priority:") {
			return true
		}
	}
	return false
}
