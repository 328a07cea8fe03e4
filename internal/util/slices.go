package util

import (
	"errors"
	"unicode/utf8"
)

// ErrInvalidChunkSize is returned by ChunkList for a size below 1.
var ErrInvalidChunkSize = errors.New("chunk size must be a positive integer")

// ChunkList splits items into consecutive groups of size; the last group may
// be shorter. Chunks share the backing array of items.
func ChunkList[T any](items []T, size int) ([][]T, error) {
	if size <= 0 {
		return nil, ErrInvalidChunkSize
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end:end])
	}
	return chunks, nil
}

// GetSubstring returns the characters of text from index start through end,
// both inclusive. Indices count runes. A negative index counts from the end of
// text, so GetSubstring("Hello", -3, -2) is "ll".
// Out-of-range indices are clamped, and an empty string is returned when the
// range is empty.
func GetSubstring(text string, start, end int) string {
	n := utf8.RuneCountInString(text)
	lo, hi := sliceIndex(start, n), sliceIndex(end+1, n)
	if lo >= hi {
		return ""
	}
	if n == len(text) {
		return text[lo:hi]
	}
	return string([]rune(text)[lo:hi])
}

// sliceIndex resolves a possibly negative index against length n into [0, n].
func sliceIndex(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			return 0
		}
	}
	if i > n {
		return n
	}
	return i
}

// FindDuplicates returns every item that occurs more than once in items, each
// reported once. It makes a single pass with a seen-set. Callers must not rely
// on the order of the result.
func FindDuplicates[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	reported := make(map[T]struct{})
	dups := make([]T, 0)
	for _, it := range items {
		if _, ok := seen[it]; !ok {
			seen[it] = struct{}{}
			continue
		}
		if _, ok := reported[it]; ok {
			continue
		}
		reported[it] = struct{}{}
		dups = append(dups, it)
	}
	return dups
}

// UserDataSummary describes a batch of user ids.
type UserDataSummary[T comparable] struct {
	TotalUsers     int `json:"total_users"`
	DuplicateCount int `json:"duplicate_count"`
	Duplicates     []T `json:"duplicates"`
}

// ProcessUserData counts the ids in a batch and reports which appear more than once.
func ProcessUserData[T comparable](ids []T) UserDataSummary[T] {
	dups := FindDuplicates(ids)
	return UserDataSummary[T]{
		TotalUsers:     len(ids),
		DuplicateCount: len(dups),
		Duplicates:     dups,
	}
}
