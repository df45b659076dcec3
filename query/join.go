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
	"errors"
	"io"
)

// buildLookup drains seq into per-key buckets, preserving encounter order
// within each bucket, and closes it.
func buildLookup[T any, K comparable](seq Sequence[T], key func(T) K) (map[K][]T, error) {
	defer drainClose(seq)

	lookup := make(map[K][]T)
	for {
		item, err := seq.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return lookup, nil
			}
			return nil, err
		}
		k := key(item)
		lookup[k] = append(lookup[k], item)
	}
}

// joinSequence matches elements of two sequences on equal keys.
type joinSequence[O, I any, K comparable, R any] struct {
	claimGuard
	outer        Sequence[O]
	inner        Sequence[I]
	outerKey     func(O) K
	innerKey     func(I) K
	result       func(O, I) R
	lookup       map[K][]I
	currentOuter O
	matches      []I
	pos          int
	closed       bool
}

// Join returns a sequence pairing each element of outer with every element
// of inner that shares its key. The inner sequence is drained in full on
// the first pull; outer stays lazy. Results follow outer order, with inner
// encounter order within each outer element. Elements of either side with
// no match produce nothing.
func Join[O, I any, K comparable, R any](
	outer Sequence[O],
	inner Sequence[I],
	outerKey func(O) K,
	innerKey func(I) K,
	result func(O, I) R,
) Sequence[R] {
	if outerKey == nil || innerKey == nil {
		panic("query: Join requires key functions for both sides")
	}
	if result == nil {
		panic("query: Join requires a result function")
	}
	return &joinSequence[O, I, K, R]{
		outer:    attach(outer),
		inner:    attach(inner),
		outerKey: outerKey,
		innerKey: innerKey,
		result:   result,
	}
}

func (s *joinSequence[O, I, K, R]) Next() (R, error) {
	var zero R
	if s.closed {
		return zero, io.EOF
	}
	if s.lookup == nil {
		lookup, err := buildLookup(s.inner, s.innerKey)
		if err != nil {
			return zero, err
		}
		s.lookup = lookup
		s.inner = nil
	}
	for {
		if s.pos < len(s.matches) {
			item := s.matches[s.pos]
			s.pos++
			return s.result(s.currentOuter, item), nil
		}
		outer, err := s.outer.Next()
		if err != nil {
			return zero, err
		}
		matches := s.lookup[s.outerKey(outer)]
		if len(matches) == 0 {
			continue
		}
		s.currentOuter = outer
		s.matches = matches
		s.pos = 0
	}
}

func (s *joinSequence[O, I, K, R]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.inner != nil {
		if err := s.inner.Close(); err != nil {
			errs = append(errs, err)
		}
		s.inner = nil
	}
	if err := s.outer.Close(); err != nil {
		errs = append(errs, err)
	}
	s.lookup = nil
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// groupJoinSequence pairs each outer element with the whole bucket of
// matching inner elements.
type groupJoinSequence[O, I any, K comparable, R any] struct {
	claimGuard
	outer    Sequence[O]
	inner    Sequence[I]
	outerKey func(O) K
	innerKey func(I) K
	result   func(O, []I) R
	lookup   map[K][]I
	closed   bool
}

// GroupJoin returns a sequence with one result per outer element, pairing
// it with all matching inner elements at once. Outer elements with no
// match still appear, with an empty bucket. The inner sequence is drained
// in full on the first pull.
func GroupJoin[O, I any, K comparable, R any](
	outer Sequence[O],
	inner Sequence[I],
	outerKey func(O) K,
	innerKey func(I) K,
	result func(O, []I) R,
) Sequence[R] {
	if outerKey == nil || innerKey == nil {
		panic("query: GroupJoin requires key functions for both sides")
	}
	if result == nil {
		panic("query: GroupJoin requires a result function")
	}
	return &groupJoinSequence[O, I, K, R]{
		outer:    attach(outer),
		inner:    attach(inner),
		outerKey: outerKey,
		innerKey: innerKey,
		result:   result,
	}
}

func (s *groupJoinSequence[O, I, K, R]) Next() (R, error) {
	var zero R
	if s.closed {
		return zero, io.EOF
	}
	if s.lookup == nil {
		lookup, err := buildLookup(s.inner, s.innerKey)
		if err != nil {
			return zero, err
		}
		s.lookup = lookup
		s.inner = nil
	}
	outer, err := s.outer.Next()
	if err != nil {
		return zero, err
	}
	return s.result(outer, s.lookup[s.outerKey(outer)]), nil
}

func (s *groupJoinSequence[O, I, K, R]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.inner != nil {
		if err := s.inner.Close(); err != nil {
			errs = append(errs, err)
		}
		s.inner = nil
	}
	if err := s.outer.Close(); err != nil {
		errs = append(errs, err)
	}
	s.lookup = nil
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
