// Package tools holds small collection and string helpers.
package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ZipFill zips seqs into rows, padding shorter sequences with def.
func ZipFill[T any](def T, seqs ...[]T) [][]T {
	n := MaxLen(seqs...)
	rows := make([][]T, n)
	for i := range rows {
		row := make([]T, len(seqs))
		for j, seq := range seqs {
			if i < len(seq) {
				row[j] = seq[i]
			} else {
				row[j] = def
			}
		}
		rows[i] = row
	}
	return rows
}

// StrList formats each element with printer, fmt.Sprint if nil, and joins
// them with sep.
func StrList[T any](items []T, sep string, printer func(T) string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		if printer != nil {
			parts[i] = printer(item)
		} else {
			parts[i] = fmt.Sprint(item)
		}
	}
	return strings.Join(parts, sep)
}

// Choose keeps the elements whose indicator is true.
func Choose[T any](items []T, indicator []bool) []T {
	var chosen []T
	for i, item := range items {
		if i < len(indicator) && indicator[i] {
			chosen = append(chosen, item)
		}
	}
	return chosen
}

// Camelcaseify turns snake_case into CamelCase, joining the words with sep.
func Camelcaseify(name, sep string) string {
	caser := cases.Title(language.Und)
	words := strings.Split(name, "_")
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, sep)
}

// FilterIndex returns the elements at the given positions.
func FilterIndex[T any](items []T, index []int) []T {
	out := make([]T, 0, len(index))
	for _, i := range index {
		out = append(out, items[i])
	}
	return out
}

// JoinLists concatenates lists.
func JoinLists[T any](lists [][]T) []T {
	return slices.Concat(lists...)
}

// Pair is one element of a cartesian product.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Pairs returns the cartesian product of a and b.
func Pairs[A, B any](a []A, b []B) []Pair[A, B] {
	out := make([]Pair[A, B], 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			out = append(out, Pair[A, B]{x, y})
		}
	}
	return out
}

// IndexOf returns the index of the first element matching pred, or -1.
func IndexOf[T any](pred func(T) bool, items []T) int {
	return slices.IndexFunc(items, pred)
}

// Find returns the first element matching pred.
func Find[T any](pred func(T) bool, items []T) (T, bool) {
	if i := slices.IndexFunc(items, pred); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

// ListdirAbs lists dir with each entry joined to dir.
func ListdirAbs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = filepath.Join(dir, e.Name())
	}
	return paths, nil
}

// MinLen is the length of the shortest sequence, 0 without any.
func MinLen[T any](seqs ...[]T) int {
	if len(seqs) == 0 {
		return 0
	}
	n := len(seqs[0])
	for _, s := range seqs[1:] {
		n = min(n, len(s))
	}
	return n
}

// MaxLen is the length of the longest sequence.
func MaxLen[T any](seqs ...[]T) int {
	n := 0
	for _, s := range seqs {
		n = max(n, len(s))
	}
	return n
}

// FilterFalseKeys returns the entries of m whose key does not match pred.
func FilterFalseKeys[K comparable, V any](pred func(K) bool, m map[K]V) map[K]V {
	out := make(map[K]V)
	for k, v := range m {
		if !pred(k) {
			out[k] = v
		}
	}
	return out
}

// ListDiff returns the elements of a that are not in b, in a's order and
// without duplicates.
func ListDiff[T comparable](a, b []T) []T {
	exclude := make(map[T]struct{}, len(b))
	for _, e := range b {
		exclude[e] = struct{}{}
	}
	var out []T
	for _, e := range UniqOrdered(a) {
		if _, ok := exclude[e]; !ok {
			out = append(out, e)
		}
	}
	return out
}

// UniqOrdered drops repeated elements, keeping first occurrences.
func UniqOrdered[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, e := range items {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
