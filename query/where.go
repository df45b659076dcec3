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

import "io"

// whereSequence forwards upstream elements that satisfy a predicate.
type whereSequence[T any] struct {
	claimGuard
	src       Sequence[T]
	predicate func(int, T) bool
	index     int
	closed    bool
}

// Where returns a sequence of the elements of src that satisfy predicate.
// Each pull tests upstream elements until one passes, so a pull may consume
// several upstream elements but never more than needed for one result.
func Where[T any](src Sequence[T], predicate func(T) bool) Sequence[T] {
	if predicate == nil {
		panic("query: Where requires a predicate")
	}
	return &whereSequence[T]{
		src:       attach(src),
		predicate: func(_ int, item T) bool { return predicate(item) },
	}
}

// WhereIndexed is Where with a predicate that also receives each element's
// zero-based position in the upstream sequence.
func WhereIndexed[T any](src Sequence[T], predicate func(int, T) bool) Sequence[T] {
	if predicate == nil {
		panic("query: WhereIndexed requires a predicate")
	}
	return &whereSequence[T]{src: attach(src), predicate: predicate}
}

func (s *whereSequence[T]) Next() (T, error) {
	var zero T
	if s.closed {
		return zero, io.EOF
	}
	for {
		item, err := s.src.Next()
		if err != nil {
			return zero, err
		}
		index := s.index
		s.index++
		if s.predicate(index, item) {
			return item, nil
		}
	}
}

func (s *whereSequence[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.src.Close()
}

// ofTypeSequence forwards elements assertable to a concrete type.
type ofTypeSequence[T any] struct {
	claimGuard
	src    Sequence[any]
	closed bool
}

// OfType returns a sequence of the elements of src that are of type T,
// silently skipping everything else.
func OfType[T any](src Sequence[any]) Sequence[T] {
	return &ofTypeSequence[T]{src: attach(src)}
}

func (s *ofTypeSequence[T]) Next() (T, error) {
	var zero T
	if s.closed {
		return zero, io.EOF
	}
	for {
		item, err := s.src.Next()
		if err != nil {
			return zero, err
		}
		if typed, ok := item.(T); ok {
			return typed, nil
		}
	}
}

func (s *ofTypeSequence[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.src.Close()
}
