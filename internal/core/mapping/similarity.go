package mapping

// Similarity returns the matching-character percentage of a and b on a 0–100 scale.
//
// The common-character count is found by taking the longest common substring, then
// recursing on the pieces to its left and right. The percentage is
// 2*common/(len(a)+len(b))*100. The count is computed in both argument orders and the larger
// one is kept, which makes the function symmetric.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}
	common := commonChars(ra, rb)
	if rev := commonChars(rb, ra); rev > common {
		common = rev
	}
	return float64(common*2) * 100 / float64(total)
}

func commonChars(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	posA, posB, longest := longestCommonSubstring(a, b)
	if longest == 0 {
		return 0
	}
	return longest +
		commonChars(a[:posA], b[:posB]) +
		commonChars(a[posA+longest:], b[posB+longest:])
}

// longestCommonSubstring returns the first longest run shared by a and b, scanning a then b.
func longestCommonSubstring(a, b []rune) (posA, posB, longest int) {
	for i := range a {
		for j := range b {
			k := 0
			for i+k < len(a) && j+k < len(b) && a[i+k] == b[j+k] {
				k++
			}
			if k > longest {
				posA, posB, longest = i, j, k
			}
		}
	}
	return posA, posB, longest
}
