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
	"errors"
	"fmt"
	"io"
	"slices"
)

// Group is one key's elements from a grouped sequence.
type Group[K, E any] struct {
	Key   K
	Items []E
}

// groupSequence buffers and sorts the upstream by key on the first pull,
// then yields one contiguous run of equal keys per pull.
type groupSequence[T any, K cmp.Ordered, E any] struct {
	claimGuard
	src     Sequence[T]
	key     func(T) K
	element func(T) E
	pairs   []groupPair[K, E]
	next    int
	started bool
	loadErr error
	closed  bool
}

type groupPair[K, E any] struct {
	key     K
	element E
}

// GroupBy returns a sequence of groups of the elements of src that share a
// key. Grouping sorts by key, so groups arrive in ascending key order
// rather than the order keys were first seen; within a group, elements
// keep their upstream order.
func GroupBy[T any, K cmp.Ordered](src Sequence[T], key func(T) K) Sequence[Group[K, T]] {
	return GroupBySelect(src, key, func(item T) T { return item })
}

// GroupBySelect is GroupBy with an element selector applied to each
// element before it is placed in its group.
func GroupBySelect[T any, K cmp.Ordered, E any](src Sequence[T], key func(T) K, element func(T) E) Sequence[Group[K, E]] {
	if key == nil {
		panic("query: GroupBy requires a key function")
	}
	if element == nil {
		panic("query: GroupBySelect requires an element selector")
	}
	return &groupSequence[T, K, E]{src: attach(src), key: key, element: element}
}

func (s *groupSequence[T, K, E]) Next() (Group[K, E], error) {
	var zero Group[K, E]
	if s.closed {
		return zero, io.EOF
	}
	if !s.started {
		s.started = true
		s.loadErr = s.load()
	}
	if s.loadErr != nil {
		return zero, s.loadErr
	}
	if s.next >= len(s.pairs) {
		return zero, io.EOF
	}

	start := s.next
	key := s.pairs[start].key
	for s.next < len(s.pairs) && s.pairs[s.next].key == key {
		s.next++
	}
	items := make([]E, 0, s.next-start)
	for _, pair := range s.pairs[start:s.next] {
		items = append(items, pair.element)
	}
	return Group[K, E]{Key: key, Items: items}, nil
}

// load drains the upstream, extracting each element's key exactly once,
// and stable-sorts the pairs so groups keep their upstream element order.
func (s *groupSequence[T, K, E]) load() error {
	for {
		item, err := s.src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			s.pairs = nil
			return fmt.Errorf("grouping load: %w", err)
		}
		s.pairs = append(s.pairs, groupPair[K, E]{key: s.key(item), element: s.element(item)})
	}
	slices.SortStableFunc(s.pairs, func(a, b groupPair[K, E]) int {
		return cmp.Compare(a.key, b.key)
	})
	return nil
}

func (s *groupSequence[T, K, E]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.pairs = nil
	return s.src.Close()
}
