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

// takeSequence yields at most a fixed number of upstream elements.
type takeSequence[T any] struct {
	claimGuard
	src       Sequence[T]
	remaining int
	closed    bool
}

// Take returns a sequence of the first count elements of src. Once the
// count is reached the upstream is not pulled again, so Take over an
// infinite source terminates.
func Take[T any](src Sequence[T], count int) Sequence[T] {
	if count < 0 {
		count = 0
	}
	return &takeSequence[T]{src: attach(src), remaining: count}
}

func (s *takeSequence[T]) Next() (T, error) {
	var zero T
	if s.closed || s.remaining <= 0 {
		return zero, io.EOF
	}
	item, err := s.src.Next()
	if err != nil {
		return zero, err
	}
	s.remaining--
	return item, nil
}

func (s *takeSequence[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.src.Close()
}

// takeWhileSequence yields upstream elements until the predicate fails.
type takeWhileSequence[T any] struct {
	claimGuard
	src       Sequence[T]
	predicate func(T) bool
	done      bool
	closed    bool
}

// TakeWhile returns a sequence of the leading elements of src that satisfy
// predicate. The first failing element is consumed but not yielded, and the
// upstream is not pulled again after that.
func TakeWhile[T any](src Sequence[T], predicate func(T) bool) Sequence[T] {
	if predicate == nil {
		panic("query: TakeWhile requires a predicate")
	}
	return &takeWhileSequence[T]{src: attach(src), predicate: predicate}
}

func (s *takeWhileSequence[T]) Next() (T, error) {
	var zero T
	if s.closed || s.done {
		return zero, io.EOF
	}
	item, err := s.src.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.done = true
		}
		return zero, err
	}
	if !s.predicate(item) {
		s.done = true
		return zero, io.EOF
	}
	return item, nil
}

func (s *takeWhileSequence[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.src.Close()
}

// skipSequence discards a fixed number of leading upstream elements.
type skipSequence[T any] struct {
	claimGuard
	src    Sequence[T]
	toSkip int
	closed bool
}

// Skip returns a sequence of the elements of src after the first count.
// Nothing is discarded until the first pull.
func Skip[T any](src Sequence[T], count int) Sequence[T] {
	if count < 0 {
		count = 0
	}
	return &skipSequence[T]{src: attach(src), toSkip: count}
}

func (s *skipSequence[T]) Next() (T, error) {
	var zero T
	if s.closed {
		return zero, io.EOF
	}
	for s.toSkip > 0 {
		if _, err := s.src.Next(); err != nil {
			return zero, err
		}
		s.toSkip--
	}
	return s.src.Next()
}

func (s *skipSequence[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.src.Close()
}

// skipWhileSequence discards leading upstream elements while the predicate
// holds, then forwards everything else untested.
type skipWhileSequence[T any] struct {
	claimGuard
	src       Sequence[T]
	predicate func(T) bool
	skipping  bool
	closed    bool
}

// SkipWhile returns a sequence of the elements of src starting from the
// first one that fails predicate. That element is yielded, and the
// predicate is never consulted again afterward.
func SkipWhile[T any](src Sequence[T], predicate func(T) bool) Sequence[T] {
	if predicate == nil {
		panic("query: SkipWhile requires a predicate")
	}
	return &skipWhileSequence[T]{src: attach(src), predicate: predicate, skipping: true}
}

func (s *skipWhileSequence[T]) Next() (T, error) {
	var zero T
	if s.closed {
		return zero, io.EOF
	}
	for s.skipping {
		item, err := s.src.Next()
		if err != nil {
			return zero, err
		}
		if !s.predicate(item) {
			s.skipping = false
			return item, nil
		}
	}
	return s.src.Next()
}

func (s *skipWhileSequence[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.src.Close()
}
