// Package collection holds small generic slice helpers shared by the
// report and view packages.
//
//	names := collection.Map(foods, func(f models.Food) string { return f.Name })
//	groups := collection.GroupOrdered(msgs, func(m models.ChatMessage) string { return m.SessionID })
package collection

import "sort"

// Map transforms each element of s using fn.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns the elements of s for which fn is true, in order. The
// result is never nil.
func Filter[T any](s []T, fn func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// Group is one bucket produced by GroupOrdered.
type Group[T any] struct {
	Key   string
	Items []T
}

// GroupOrdered buckets s by key. Buckets appear in the order their key was
// first seen and keep their items in input order.
func GroupOrdered[T any](s []T, key func(T) string) []Group[T] {
	index := make(map[string]int)
	var out []Group[T]
	for _, v := range s {
		k := key(v)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Group[T]{Key: k})
		}
		out[i].Items = append(out[i].Items, v)
	}
	return out
}

// SortStable returns a sorted copy of s; equal elements keep their order.
func SortStable[T any](s []T, less func(a, b T) bool) []T {
	out := append([]T(nil), s...)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Page returns the 1-based page n of size items. Out of range pages are
// empty.
func Page[T any](s []T, n, size int) []T {
	if n < 1 || size < 1 {
		return []T{}
	}
	start := (n - 1) * size
	if start >= len(s) {
		return []T{}
	}
	end := start + size
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}

// Pages is the number of pages of size needed for total items.
func Pages(total, size int) int {
	if size < 1 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
