// Package combo enumerates k-subsets of index ranges in a fixed,
// reproducible order.
//
// The exhaustive selection strategy walks every size-k subset of the
// candidate crosses. Reproducible output depends on the enumeration order
// never changing between runs, so every function here yields combinations in
// lexicographic order over [0, n): for n=4, k=2 the order is
// [0 1] [0 2] [0 3] [1 2] [1 3] [2 3].
package combo

import (
	"math"
	"slices"
)

// Seq returns a slice containing the sequence [0, 1, 2, ..., n-1].
// This is the first combination of size n drawn from n elements and the
// starting state for [Each].
//
// For n <= 0, Seq returns an empty slice.
func Seq(n int) []int {
	if n <= 0 {
		return []int{}
	}
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	return result
}

// Binomial returns C(n, k), the number of k-subsets of n elements.
// It returns 0 when k < 0 or k > n, and saturates at math.MaxInt rather than
// overflowing.
func Binomial(n, k int) int {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		// result * (n-k+i) / i stays exact because result*(n-k+i) is always
		// divisible by i at this point.
		num := n - k + i
		if result > math.MaxInt/num {
			return math.MaxInt
		}
		result = result * num / i
	}
	return result
}

// Each calls fn with every k-subset of [0, n) in lexicographic order.
// Enumeration stops early when fn returns false.
//
// The slice passed to fn is reused between calls; clone it to retain it.
//
// Edge cases:
//   - k == 0: fn is called once with an empty slice
//   - k < 0 or k > n: fn is never called
func Each(n, k int, fn func(idx []int) bool) {
	if k < 0 || k > n {
		return
	}
	idx := Seq(k)
	for {
		if !fn(idx) {
			return
		}
		if !next(idx, n) {
			return
		}
	}
}

// next advances idx to the lexicographically following combination of
// [0, n) and reports whether one exists.
func next(idx []int, n int) bool {
	k := len(idx)
	i := k - 1
	for i >= 0 && idx[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	idx[i]++
	for j := i + 1; j < k; j++ {
		idx[j] = idx[j-1] + 1
	}
	return true
}

// Generate returns k-subsets of [0, n) in lexicographic order.
//
// If limit > 0, Generate returns at most limit combinations.
// If limit <= 0, Generate returns all C(n, k) combinations.
//
// Each returned slice is a separate allocation, safe to modify without
// affecting others. C(n, k) grows quickly (C(40, 6) is 3,838,380); always use a
// limit when n is large, or prefer [Each] which does not materialise results.
func Generate(n, k, limit int) [][]int {
	total := Binomial(n, k)
	if total == 0 {
		return nil
	}

	capacity := total
	if limit > 0 && limit < capacity {
		capacity = limit
	}
	result := make([][]int, 0, min(capacity, 1<<16))

	Each(n, k, func(idx []int) bool {
		result = append(result, slices.Clone(idx))
		return limit <= 0 || len(result) < limit
	})
	return result
}
