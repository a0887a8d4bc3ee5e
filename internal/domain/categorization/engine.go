package categorization

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// keywordEngine scores descriptions against a category dictionary in a
// single Aho-Corasick pass, independent of how many keywords are loaded.
// A substring hit scores 1; a word-boundary hit scores 2 more. The
// matcher deduplicates identical patterns, so each unique keyword is
// compiled once and credits every category that declares it.
type keywordEngine struct {
	matcher    *ahocorasick.Matcher
	owners     [][]string
	boundaries []*regexp.Regexp
	order      []string
}

func newKeywordEngine(categories []categoryEntry) *keywordEngine {
	e := &keywordEngine{}
	index := make(map[string]int)
	var patterns [][]byte
	for _, entry := range categories {
		e.order = append(e.order, entry.name)
		for _, kw := range entry.keywords {
			i, seen := index[kw]
			if !seen {
				i = len(patterns)
				index[kw] = i
				patterns = append(patterns, []byte(kw))
				e.owners = append(e.owners, nil)
				e.boundaries = append(e.boundaries, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
			}
			e.owners[i] = append(e.owners[i], entry.name)
		}
	}
	if len(patterns) > 0 {
		e.matcher = ahocorasick.NewMatcher(patterns)
	}
	return e
}

// best returns the highest-scoring category for a lowercased description
// and its score. Ties keep the earliest-declared category; a zero score
// returns the dictionary's fallback entry (the last, keyword-less one).
func (e *keywordEngine) best(lowerDesc string) (string, int) {
	scores := make(map[string]int)
	if e.matcher != nil {
		for _, idx := range e.matcher.Match([]byte(lowerDesc)) {
			if idx < 0 || idx >= len(e.owners) {
				continue
			}
			credit := 1
			if e.boundaries[idx].MatchString(lowerDesc) {
				credit += 2
			}
			for _, category := range e.owners[idx] {
				scores[category] += credit
			}
		}
	}

	bestName := e.order[len(e.order)-1]
	bestScore := 0
	for _, name := range e.order {
		if scores[name] > bestScore {
			bestName = name
			bestScore = scores[name]
		}
	}
	return bestName, bestScore
}

// indicatorSet answers "does this description contain any of these
// terms" in one matcher pass.
type indicatorSet struct {
	matcher *ahocorasick.Matcher
}

func newIndicatorSet(terms []string) *indicatorSet {
	patterns := make([][]byte, len(terms))
	for i, t := range terms {
		patterns[i] = []byte(strings.ToLower(t))
	}
	return &indicatorSet{matcher: ahocorasick.NewMatcher(patterns)}
}

func (s *indicatorSet) hits(lowerDesc string) bool {
	return len(s.matcher.Match([]byte(lowerDesc))) > 0
}
