package tools

import "strings"

// toolNamePrefix is shared by every catalog name and ignored when comparing.
const toolNamePrefix = "rememberizer_vectordb_"

// closestToolName returns the candidate nearest to name, or "" if none is close.
// Callers pass names like "search" or "rememberizer_vectordb_serch"; the shared
// prefix is stripped on both sides before measuring edit distance.
func closestToolName(name string, candidates []ToolName) ToolName {
	query := strings.TrimPrefix(strings.ToLower(name), toolNamePrefix)
	if query == "" {
		return ""
	}

	// Shorter names get stricter matching
	maxDistance := len(query) / 3
	if maxDistance < 1 {
		maxDistance = 1
	}
	if maxDistance > 3 {
		maxDistance = 3
	}

	var best ToolName
	bestDistance := maxDistance + 1
	for _, candidate := range candidates {
		target := strings.TrimPrefix(string(candidate), toolNamePrefix)
		distance := levenshteinDistance(query, target)
		if distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}

	return best
}

// levenshteinDistance counts the single-byte edits turning s1 into s2.
func levenshteinDistance(s1, s2 string) int {
	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}
