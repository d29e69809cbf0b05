package resolve

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// suggestionLimit caps how many near-miss symbols a warning carries.
const suggestionLimit = 5

// similarityThreshold filters out irrelevant candidates.
const similarityThreshold = 0.5

type scoredSymbol struct {
	symbol string
	score  float64
}

// rankSimilar orders candidate symbols by similarity to a query token,
// combining substring containment with normalized Levenshtein
// distance. Returns at most suggestionLimit symbols above the
// threshold.
func rankSimilar(query string, symbols []string) []string {
	if query == "" || len(symbols) == 0 {
		return nil
	}
	queryLower := strings.ToLower(query)

	var results []scoredSymbol
	for _, symbol := range symbols {
		if symbol == "" {
			continue
		}
		score := similarity(queryLower, symbol)
		if score > similarityThreshold {
			results = append(results, scoredSymbol{symbol: symbol, score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].symbol < results[j].symbol
	})

	limit := suggestionLimit
	if len(results) < limit {
		limit = len(results)
	}
	top := make([]string, limit)
	for i := 0; i < limit; i++ {
		top[i] = results[i].symbol
	}
	return top
}

func similarity(queryLower, symbol string) float64 {
	symbolLower := strings.ToLower(symbol)

	if queryLower == symbolLower {
		return 1.0
	}
	if strings.Contains(symbolLower, queryLower) || strings.Contains(queryLower, symbolLower) {
		return 0.9
	}

	dist := levenshtein.Distance(queryLower, symbolLower, nil)
	maxLen := float64(len(queryLower))
	if len(symbolLower) > int(maxLen) {
		maxLen = float64(len(symbolLower))
	}
	score := 1.0 - float64(dist)/maxLen
	if score < 0 {
		score = 0
	}
	return score
}
