package services

import (
	"iter"
	"slices"
)

// Batches yields consecutive batches of at most size items together with
// their zero-based batch index. Only the last batch may be shorter.
// A size below 1 yields all items as a single batch.
func Batches[T any](items []T, size int) iter.Seq2[int, []T] {
	return func(yield func(int, []T) bool) {
		if len(items) == 0 {
			return
		}
		if size < 1 {
			size = len(items)
		}
		i := 0
		for batch := range slices.Chunk(items, size) {
			if !yield(i, batch) {
				return
			}
			i++
		}
	}
}

// BatchCount returns how many batches Batches yields for n items.
func BatchCount(n, size int) int {
	if n <= 0 {
		return 0
	}
	if size < 1 {
		return 1
	}
	return (n + size - 1) / size
}
