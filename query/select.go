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

// selectSequence applies a transformation to each upstream element.
type selectSequence[T, R any] struct {
	claimGuard
	src      Sequence[T]
	selector func(T) R
	closed   bool
}

// Select returns a sequence that applies selector to each element of src.
// The selector runs once per pull; elements never pulled are never
// transformed.
func Select[T, R any](src Sequence[T], selector func(T) R) Sequence[R] {
	if selector == nil {
		panic("query: Select requires a selector")
	}
	return &selectSequence[T, R]{src: attach(src), selector: selector}
}

func (s *selectSequence[T, R]) Next() (R, error) {
	var zero R
	if s.closed {
		return zero, io.EOF
	}
	item, err := s.src.Next()
	if err != nil {
		return zero, err // Pass through EOF and upstream failures
	}
	return s.selector(item), nil
}

func (s *selectSequence[T, R]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.src.Close()
}

// selectIndexedSequence applies a transformation that also receives the
// zero-based position of each element.
type selectIndexedSequence[T, R any] struct {
	claimGuard
	src      Sequence[T]
	selector func(int, T) R
	index    int
	closed   bool
}

// SelectIndexed returns a sequence that applies selector to each element of
// src along with the element's zero-based position.
func SelectIndexed[T, R any](src Sequence[T], selector func(int, T) R) Sequence[R] {
	if selector == nil {
		panic("query: SelectIndexed requires a selector")
	}
	return &selectIndexedSequence[T, R]{src: attach(src), selector: selector}
}

func (s *selectIndexedSequence[T, R]) Next() (R, error) {
	var zero R
	if s.closed {
		return zero, io.EOF
	}
	item, err := s.src.Next()
	if err != nil {
		return zero, err
	}
	result := s.selector(s.index, item)
	s.index++
	return result, nil
}

func (s *selectIndexedSequence[T, R]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.src.Close()
}

// selectManySequence flattens the sequences produced for each upstream
// element into one stream. At most one inner sequence is open at a time.
type selectManySequence[T, U, R any] struct {
	claimGuard
	src     Sequence[T]
	project func(int, T) Sequence[U]
	result  func(T, U) R
	outer   T
	inner   Sequence[U]
	index   int
	closed  bool
}

// SelectMany returns a sequence that projects each element of src to a
// sequence and concatenates the results in upstream order. Each inner
// sequence is fully drained before the next outer element is pulled, and a
// nil inner sequence is treated as empty.
func SelectMany[T, U any](src Sequence[T], projector func(T) Sequence[U]) Sequence[U] {
	if projector == nil {
		panic("query: SelectMany requires a projector")
	}
	return &selectManySequence[T, U, U]{
		src:     attach(src),
		project: func(_ int, item T) Sequence[U] { return projector(item) },
		result:  func(_ T, item U) U { return item },
	}
}

// SelectManyIndexed is SelectMany with a projector that also receives the
// zero-based position of each outer element.
func SelectManyIndexed[T, U any](src Sequence[T], projector func(int, T) Sequence[U]) Sequence[U] {
	if projector == nil {
		panic("query: SelectManyIndexed requires a projector")
	}
	return &selectManySequence[T, U, U]{
		src:     attach(src),
		project: projector,
		result:  func(_ T, item U) U { return item },
	}
}

// SelectManyBy is SelectMany with a result selector that pairs each inner
// element with the outer element it came from.
func SelectManyBy[T, U, R any](src Sequence[T], projector func(T) Sequence[U], resultSelector func(T, U) R) Sequence[R] {
	if projector == nil {
		panic("query: SelectManyBy requires a projector")
	}
	if resultSelector == nil {
		panic("query: SelectManyBy requires a result selector")
	}
	return &selectManySequence[T, U, R]{
		src:     attach(src),
		project: func(_ int, item T) Sequence[U] { return projector(item) },
		result:  resultSelector,
	}
}

func (s *selectManySequence[T, U, R]) Next() (R, error) {
	var zero R
	if s.closed {
		return zero, io.EOF
	}
	for {
		if s.inner == nil {
			outer, err := s.src.Next()
			if err != nil {
				return zero, err
			}
			inner := s.project(s.index, outer)
			s.index++
			if inner == nil {
				continue
			}
			s.outer = outer
			s.inner = attach(inner)
		}
		item, err := s.inner.Next()
		if err == nil {
			return s.result(s.outer, item), nil
		}
		if !errors.Is(err, io.EOF) {
			return zero, err
		}
		// Inner exhausted; release it and advance the outer
		if cerr := s.inner.Close(); cerr != nil {
			return zero, cerr
		}
		s.inner = nil
	}
}

func (s *selectManySequence[T, U, R]) Close() error {
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
	if err := s.src.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
