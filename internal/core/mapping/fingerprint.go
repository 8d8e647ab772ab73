package mapping

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// fuzzyMatchThreshold is the minimum Jaccard similarity for a fuzzy template match.
const fuzzyMatchThreshold = 0.8

// Fingerprint hashes a header set independently of order, case and whitespace.
func Fingerprint(headers []string) string {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.Join(strings.Fields(strings.ToLower(h)), " ")
	}
	sort.Strings(normalized)
	sum := md5.Sum([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(sum[:])
}

// Jaccard returns |A∩B| / |A∪B| over the lowercase, trimmed header sets.
func Jaccard(a, b []string) float64 {
	setA, setB := headerSet(a), headerSet(b)
	union := len(setA)
	inter := 0
	for h := range setB {
		if setA[h] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// IsFuzzyMatch reports whether a Jaccard score clears the fuzzy template gate.
func IsFuzzyMatch(score float64) bool {
	return score >= fuzzyMatchThreshold
}

func headerSet(headers []string) map[string]bool {
	set := make(map[string]bool, len(headers))
	for _, h := range headers {
		set[normalizeHeader(h)] = true
	}
	return set
}
