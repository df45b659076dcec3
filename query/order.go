// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package query

import (
	"cmp"
	"container/heap"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
)

// Direction selects ascending or descending order for one sort key.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection converts a textual direction such as "asc" or "desc" into
// a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("invalid sort direction %q", s)
	}
}

// SortKey describes one level of ordering: how to extract a key from an
// element, how to compare two extracted keys, and which direction to sort.
// Build keys with Asc, Desc, AscFunc, DescFunc, or NewSortKey.
type SortKey[T any] struct {
	extract func(T) any
	compare func(a, b any) int
	desc    bool
}

// Asc returns an ascending sort key over a naturally ordered key type.
func Asc[T any, K cmp.Ordered](key func(T) K) SortKey[T] {
	if key == nil {
		panic("query: Asc requires a key function")
	}
	return SortKey[T]{
		extract: func(item T) any { return key(item) },
		compare: compareOrdered[K],
	}
}

// Desc returns a descending sort key over a naturally ordered key type.
func Desc[T any, K cmp.Ordered](key func(T) K) SortKey[T] {
	if key == nil {
		panic("query: Desc requires a key function")
	}
	return SortKey[T]{
		extract: func(item T) any { return key(item) },
		compare: compareOrdered[K],
		desc:    true,
	}
}

// AscFunc returns an ascending sort key with a caller-supplied comparison,
// for key types without a natural order.
func AscFunc[T any](key func(T) any, compare func(a, b any) int) SortKey[T] {
	if key == nil {
		panic("query: AscFunc requires a key function")
	}
	if compare == nil {
		panic("query: AscFunc requires a comparison function")
	}
	return SortKey[T]{extract: key, compare: compare}
}

// DescFunc returns a descending sort key with a caller-supplied comparison.
func DescFunc[T any](key func(T) any, compare func(a, b any) int) SortKey[T] {
	if key == nil {
		panic("query: DescFunc requires a key function")
	}
	if compare == nil {
		panic("query: DescFunc requires a comparison function")
	}
	return SortKey[T]{extract: key, compare: compare, desc: true}
}

// NewSortKey builds a sort key from a runtime direction value, validating
// the direction. Use Asc and Desc when the direction is known statically.
func NewSortKey[T any](dir Direction, key func(T) any, compare func(a, b any) int) (SortKey[T], error) {
	if key == nil {
		return SortKey[T]{}, errors.New("sort key requires a key function")
	}
	if compare == nil {
		return SortKey[T]{}, errors.New("sort key requires a comparison function")
	}
	switch dir {
	case Ascending, Descending:
	default:
		return SortKey[T]{}, fmt.Errorf("invalid sort direction %d", int(dir))
	}
	return SortKey[T]{extract: key, compare: compare, desc: dir == Descending}, nil
}

func compareOrdered[K cmp.Ordered](a, b any) int {
	return cmp.Compare(a.(K), b.(K))
}

// OrderedSequence is a sequence with deferred multi-key ordering. Nothing
// is pulled or sorted until the first Next; up to that point ThenBy may
// refine the ordering with additional keys.
//
// Memory Impact: HIGH - the whole upstream is buffered on the first pull
// Stability: elements with equal composite keys come back in unspecified order
type OrderedSequence[T any] struct {
	claimGuard
	src     Sequence[T]
	keys    []SortKey[T]
	heap    *keyedHeap[T]
	started bool
	retired bool
	loadErr error
	closed  bool
}

// OrderBy returns a sequence of the elements of src sorted by the given
// keys, the first key being most significant. At least one key is
// required; keys built as zero values are rejected.
func OrderBy[T any](src Sequence[T], keys ...SortKey[T]) *OrderedSequence[T] {
	if len(keys) == 0 {
		panic("query: OrderBy requires at least one sort key")
	}
	validateSortKeys(keys)
	return &OrderedSequence[T]{src: attach(src), keys: slices.Clone(keys)}
}

// OrderByKey sorts by a single naturally ordered key, ascending.
func OrderByKey[T any, K cmp.Ordered](src Sequence[T], key func(T) K) *OrderedSequence[T] {
	return OrderBy(src, Asc(key))
}

// OrderByKeyDesc sorts by a single naturally ordered key, descending.
func OrderByKeyDesc[T any, K cmp.Ordered](src Sequence[T], key func(T) K) *OrderedSequence[T] {
	return OrderBy(src, Desc(key))
}

// ThenBy returns a new ordered sequence refining this one with additional,
// less significant sort keys. The receiver's key list is not modified; the
// new sequence takes over the upstream, and pulling the receiver afterward
// fails with ErrSequenceClaimed. ThenBy panics once iteration has begun.
func (s *OrderedSequence[T]) ThenBy(keys ...SortKey[T]) *OrderedSequence[T] {
	if len(keys) == 0 {
		panic("query: ThenBy requires at least one sort key")
	}
	validateSortKeys(keys)
	if s.started {
		panic("query: ThenBy after iteration has begun")
	}

	combined := make([]SortKey[T], 0, len(s.keys)+len(keys))
	combined = append(combined, s.keys...)
	combined = append(combined, keys...)

	if s.retired {
		// The upstream already moved to an engine built from this one.
		return &OrderedSequence[T]{src: &claimedSequence[T]{}, keys: combined}
	}
	s.retired = true
	return &OrderedSequence[T]{src: s.src, keys: combined}
}

// ThenByKey refines an ordered sequence with an ascending natural-order
// key. It exists because Go methods cannot introduce the key type; it is
// equivalent to s.ThenBy(Asc(key)).
func ThenByKey[T any, K cmp.Ordered](s *OrderedSequence[T], key func(T) K) *OrderedSequence[T] {
	return s.ThenBy(Asc(key))
}

// ThenByKeyDesc refines an ordered sequence with a descending
// natural-order key.
func ThenByKeyDesc[T any, K cmp.Ordered](s *OrderedSequence[T], key func(T) K) *OrderedSequence[T] {
	return s.ThenBy(Desc(key))
}

func validateSortKeys[T any](keys []SortKey[T]) {
	for i, k := range keys {
		if k.extract == nil || k.compare == nil {
			panic(fmt.Sprintf("query: sort key %d was not built by a SortKey constructor", i))
		}
	}
}

func (s *OrderedSequence[T]) Next() (T, error) {
	var zero T
	if s.closed {
		return zero, io.EOF
	}
	if s.retired {
		return zero, ErrSequenceClaimed
	}
	if !s.started {
		s.started = true
		s.loadErr = s.load()
	}
	if s.loadErr != nil {
		return zero, s.loadErr
	}
	if s.heap.Len() == 0 {
		return zero, io.EOF
	}
	return heap.Pop(s.heap).(keyed[T]).item, nil
}

// load drains the upstream, computes the composite key for every element
// exactly once, picks the comparator, and heapifies. A key extraction
// panic therefore surfaces from the first pull, before any element is
// yielded. A failed load is remembered so later pulls cannot observe a
// partial ordering.
func (s *OrderedSequence[T]) load() error {
	var entries []keyed[T]
	for {
		item, err := s.src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("ordering load: %w", err)
		}
		key := make([]any, len(s.keys))
		for i := range s.keys {
			key[i] = s.keys[i].extract(item)
		}
		entries = append(entries, keyed[T]{key: key, item: item})
	}

	compare, mode := composeComparator(s.keys)
	s.heap = &keyedHeap[T]{entries: entries, compare: compare}
	heap.Init(s.heap)

	elementsSortedCounter.Add(context.Background(), int64(len(entries)), otelmetric.WithAttributes(
		attribute.String("comparator", mode),
	))
	return nil
}

// composeComparator builds the composite-key comparison for the heap. When
// every key sorts the same way the per-key direction checks collapse into
// one uniform comparison, inverted as a whole for descending; mixed
// directions get the general lexicographic form.
func composeComparator[T any](keys []SortKey[T]) (func(a, b []any) int, string) {
	allAsc, allDesc := true, true
	for _, k := range keys {
		if k.desc {
			allAsc = false
		} else {
			allDesc = false
		}
	}

	switch {
	case allAsc:
		return func(a, b []any) int {
			for i := range keys {
				if c := keys[i].compare(a[i], b[i]); c != 0 {
					return c
				}
			}
			return 0
		}, "ascending"
	case allDesc:
		return func(a, b []any) int {
			for i := range keys {
				if c := keys[i].compare(a[i], b[i]); c != 0 {
					return -c
				}
			}
			return 0
		}, "descending"
	default:
		return func(a, b []any) int {
			for i := range keys {
				c := keys[i].compare(a[i], b[i])
				if c == 0 {
					continue
				}
				if keys[i].desc {
					return -c
				}
				return c
			}
			return 0
		}, "mixed"
	}
}

func (s *OrderedSequence[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.heap = nil
	if s.retired {
		// The engine built from this one owns the upstream now.
		return nil
	}
	return s.src.Close()
}

// ----- heap plumbing -----

// keyed pairs an element with its precomputed composite key.
type keyed[T any] struct {
	key  []any
	item T
}

type keyedHeap[T any] struct {
	entries []keyed[T]
	compare func(a, b []any) int
}

func (h *keyedHeap[T]) Len() int { return len(h.entries) }
func (h *keyedHeap[T]) Less(i, j int) bool {
	return h.compare(h.entries[i].key, h.entries[j].key) < 0
}
func (h *keyedHeap[T]) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }
func (h *keyedHeap[T]) Push(x any)    { h.entries = append(h.entries, x.(keyed[T])) }
func (h *keyedHeap[T]) Pop() any {
	n := len(h.entries)
	v := h.entries[n-1]
	h.entries = h.entries[:n-1]
	return v
}
