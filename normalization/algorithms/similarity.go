package algorithms

import (
	"math"
)

// SimilarityMetrics метрики схожести строк для нечеткого исправления значений
type SimilarityMetrics struct{}

// NewSimilarityMetrics создает новый экземпляр метрик схожести
func NewSimilarityMetrics() *SimilarityMetrics {
	return &SimilarityMetrics{}
}

// IndelDistance расстояние только со вставками и удалениями
// (замена стоит 2): len1 + len2 - 2*LCS
func (sm *SimilarityMetrics) IndelDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	return len(r1) + len(r2) - 2*longestCommonSubsequence(r1, r2)
}

// Ratio нормированная схожесть по шкале 0..100:
// round(100 * (L - d) / L), где L - суммарная длина, d - IndelDistance.
// Округление банковское, половина округляется к четному.
func (sm *SimilarityMetrics) Ratio(s1, s2 string) int {
	total := len([]rune(s1)) + len([]rune(s2))
	if total == 0 {
		return 100
	}
	d := sm.IndelDistance(s1, s2)
	return int(math.RoundToEven(100 * float64(total-d) / float64(total)))
}

// longestCommonSubsequence длина наибольшей общей подпоследовательности
func longestCommonSubsequence(r1, r2 []rune) int {
	if len(r1) == 0 || len(r2) == 0 {
		return 0
	}
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for i := 1; i <= len(r1); i++ {
		for j := 1; j <= len(r2); j++ {
			switch {
			case r1[i-1] == r2[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}
