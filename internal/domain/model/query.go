package model

import (
	"regexp"
	"strconv"
	"strings"

	"infoseek-tracker/internal/domain"
)

const (
	DefaultArticleCount = 3
	MinArticleCount     = 1
	MaxArticleCount     = 20
)

// countClauseRe accepts a number optionally followed by a count noun
// ("5", "10 статей", "7 articles"). (?i) gives Unicode case folding, so
// the Cyrillic forms match regardless of case too.
var countClauseRe = regexp.MustCompile(`^(?i)(\d+)\s*(статья|статьи|статей|article|articles)?\s*$`)

// SearchQuery is the validated outcome of parsing freeform user input.
type SearchQuery struct {
	Keyword      string
	ArticleCount int
}

// ParseQuery turns freeform text into (keyword, article count).
//
// A comma splits keyword from the count clause: "Chopin, 5" -> (Chopin, 5).
// Without a comma the last whitespace token is treated as a count only when
// at least one word precedes it, so "5" stays a keyword. A count outside
// [1,20], or an unparsable clause, falls back to the default of 3 — it is
// never clamped.
func ParseQuery(raw string) (SearchQuery, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return SearchQuery{}, domain.ErrEmptyKeyword
	}

	if i := strings.Index(trimmed, ","); i >= 0 {
		keyword := strings.TrimSpace(trimmed[:i])
		if keyword == "" {
			return SearchQuery{}, domain.ErrEmptyKeyword
		}
		clause := strings.TrimSpace(trimmed[i+1:])
		return SearchQuery{Keyword: keyword, ArticleCount: parseCountClause(clause)}, nil
	}

	fields := strings.Fields(trimmed)
	if len(fields) >= 2 {
		last := fields[len(fields)-1]
		if n, ok := matchCount(last); ok {
			return SearchQuery{
				Keyword:      strings.Join(fields[:len(fields)-1], " "),
				ArticleCount: n,
			}, nil
		}
	}
	return SearchQuery{Keyword: trimmed, ArticleCount: DefaultArticleCount}, nil
}

// parseCountClause resolves a count clause to a usable count, defaulting on
// anything it cannot accept.
func parseCountClause(clause string) int {
	if n, ok := matchCount(clause); ok {
		return n
	}
	return DefaultArticleCount
}

func matchCount(s string) (int, bool) {
	m := countClauseRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < MinArticleCount || n > MaxArticleCount {
		return 0, false
	}
	return n, true
}
