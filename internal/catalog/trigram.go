package catalog

import (
	"sort"
	"strings"
)

// match is a scored record index.
type match struct {
	index int
	score float64
}

// trigramMatcher performs trigram-based search with multi-word support.
type trigramMatcher struct {
	normalized   []string
	itemTrigrams []map[string]struct{}
}

func newTrigramMatcher(records []Record) *trigramMatcher {
	m := &trigramMatcher{
		normalized:   make([]string, len(records)),
		itemTrigrams: make([]map[string]struct{}, len(records)),
	}
	for i, rec := range records {
		text := rec.SearchText()
		m.normalized[i] = text
		m.itemTrigrams[i] = generateTrigrams(text)
	}
	return m
}

// search returns matches sorted by score, best first.
// Every query word must match. An empty query matches nothing.
func (m *trigramMatcher) search(query string) []match {
	words := strings.Fields(normalize(query))
	if len(words) == 0 {
		return nil
	}

	wordTrigrams := make([]map[string]struct{}, len(words))
	for i, word := range words {
		wordTrigrams[i] = generateTrigrams(word)
	}

	var matches []match
	for i, itemTris := range m.itemTrigrams {
		if score := m.score(i, words, wordTrigrams, itemTris); score > 0 {
			matches = append(matches, match{index: i, score: score})
		}
	}

	// Stable keeps catalog order among equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	return matches
}

func (m *trigramMatcher) score(idx int, words []string, wordTrigrams []map[string]struct{}, itemTris map[string]struct{}) float64 {
	text := m.normalized[idx]
	total := 0.0

	for i, word := range words {
		// Too short for trigrams
		if len(word) <= 2 {
			if !strings.Contains(text, word) {
				return 0
			}
			total += 1.0
			continue
		}

		// Coverage rather than Jaccard: short queries against long
		// records would otherwise never clear the threshold.
		similarity := trigramCoverage(wordTrigrams[i], itemTris)
		if similarity < 0.4 {
			return 0
		}
		if strings.Contains(text, word) {
			similarity += 0.5
		}
		total += similarity
	}

	return total / float64(len(words))
}

func normalize(s string) string {
	return strings.ToLower(s)
}

// generateTrigrams pads with spaces for prefix/suffix trigrams and skips
// all-whitespace ones.
func generateTrigrams(s string) map[string]struct{} {
	if s == "" {
		return nil
	}

	tris := make(map[string]struct{})
	runes := []rune("  " + s + "  ")
	for i := 0; i <= len(runes)-3; i++ {
		tri := string(runes[i : i+3])
		if strings.TrimSpace(tri) != "" {
			tris[tri] = struct{}{}
		}
	}
	return tris
}

// trigramCoverage returns |query ∩ item| / |query|.
func trigramCoverage(query, item map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	hit := 0
	for tri := range query {
		if _, ok := item[tri]; ok {
			hit++
		}
	}
	return float64(hit) / float64(len(query))
}
