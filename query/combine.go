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
	"fmt"
	"io"
)

// concatSequence yields all elements of each child sequence in the order
// the children were given.
type concatSequence[T any] struct {
	claimGuard
	sequences []Sequence[T]
	current   int
	closed    bool
}

// Concat returns a sequence over the elements of each given sequence in
// turn. A child is pulled only after every earlier child is exhausted.
func Concat[T any](sequences ...Sequence[T]) Sequence[T] {
	attached := make([]Sequence[T], len(sequences))
	for i, seq := range sequences {
		attached[i] = attach(seq)
	}
	return &concatSequence[T]{sequences: attached}
}

func (s *concatSequence[T]) Next() (T, error) {
	var zero T
	if s.closed {
		return zero, io.EOF
	}
	for s.current < len(s.sequences) {
		item, err := s.sequences[s.current].Next()
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, io.EOF) {
			return zero, fmt.Errorf("concat sequence %d: %w", s.current, err)
		}
		s.current++
	}
	return zero, io.EOF
}

func (s *concatSequence[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for i, seq := range s.sequences {
		if err := seq.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close sequence %d: %w", i, err))
		}
	}
	s.sequences = nil
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// zipSequence pairs elements of two sequences positionally.
type zipSequence[A, B, R any] struct {
	claimGuard
	first  Sequence[A]
	second Sequence[B]
	result func(A, B) R
	done   bool
	closed bool
}

// Zip returns a sequence that combines the elements of first and second in
// lockstep, ending when either side is exhausted. When first is the longer
// side, one of its elements is consumed past the end of second and
// discarded.
func Zip[A, B, R any](first Sequence[A], second Sequence[B], result func(A, B) R) Sequence[R] {
	if result == nil {
		panic("query: Zip requires a result function")
	}
	return &zipSequence[A, B, R]{
		first:  attach(first),
		second: attach(second),
		result: result,
	}
}

func (s *zipSequence[A, B, R]) Next() (R, error) {
	var zero R
	if s.closed || s.done {
		return zero, io.EOF
	}
	a, err := s.first.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.done = true
		}
		return zero, err
	}
	b, err := s.second.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.done = true
		}
		return zero, err
	}
	return s.result(a, b), nil
}

func (s *zipSequence[A, B, R]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if err := s.first.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.second.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// defaultIfEmptySequence substitutes a fallback element when the upstream
// turns out to be empty, and is transparent otherwise.
type defaultIfEmptySequence[T any] struct {
	claimGuard
	src       Sequence[T]
	fallback  T
	started   bool
	defaulted bool
	closed    bool
}

// DefaultIfEmpty returns a sequence that yields the elements of src, or the
// single fallback element if src yields none. Whether src is empty is not
// known until the first pull.
func DefaultIfEmpty[T any](src Sequence[T], fallback T) Sequence[T] {
	return &defaultIfEmptySequence[T]{src: attach(src), fallback: fallback}
}

func (s *defaultIfEmptySequence[T]) Next() (T, error) {
	var zero T
	if s.closed || s.defaulted {
		return zero, io.EOF
	}
	if !s.started {
		s.started = true
		item, err := s.src.Next()
		if errors.Is(err, io.EOF) {
			s.defaulted = true
			return s.fallback, nil
		}
		return item, err
	}
	return s.src.Next()
}

func (s *defaultIfEmptySequence[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.src.Close()
}

// reverseSequence buffers the whole upstream on first pull and yields it
// back to front.
type reverseSequence[T any] struct {
	claimGuard
	src      Sequence[T]
	buffered []T
	next     int
	loaded   bool
	loadErr  error
	closed   bool
}

// Reverse returns a sequence of the elements of src in reverse order. The
// upstream is materialized in full on the first pull.
func Reverse[T any](src Sequence[T]) Sequence[T] {
	return &reverseSequence[T]{src: attach(src)}
}

func (s *reverseSequence[T]) Next() (T, error) {
	var zero T
	if s.closed {
		return zero, io.EOF
	}
	if !s.loaded {
		s.load()
	}
	if s.loadErr != nil {
		return zero, s.loadErr
	}
	if s.next < 0 {
		return zero, io.EOF
	}
	item := s.buffered[s.next]
	s.next--
	return item, nil
}

// load drains the upstream into the buffer. A failed load is remembered so
// later pulls cannot observe a partial reversal.
func (s *reverseSequence[T]) load() {
	s.loaded = true
	for {
		item, err := s.src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			s.loadErr = err
			s.buffered = nil
			return
		}
		s.buffered = append(s.buffered, item)
	}
	s.next = len(s.buffered) - 1
}

func (s *reverseSequence[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.buffered = nil
	return s.src.Close()
}
