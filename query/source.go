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
	"io"
	"iter"
)

// sliceSequence yields the elements of a slice in index order.
type sliceSequence[T any] struct {
	claimGuard
	items  []T
	index  int
	closed bool
}

// FromSlice returns a sequence over the elements of items in order.
// The slice is not copied; callers must not mutate it while iterating.
func FromSlice[T any](items []T) Sequence[T] {
	return &sliceSequence[T]{items: items}
}

// Empty returns a sequence that yields no elements.
func Empty[T any]() Sequence[T] {
	return &sliceSequence[T]{}
}

func (s *sliceSequence[T]) Next() (T, error) {
	var zero T
	if s.closed || s.index >= len(s.items) {
		return zero, io.EOF
	}
	item := s.items[s.index]
	s.index++
	return item, nil
}

func (s *sliceSequence[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.items = nil
	return nil
}

// funcSequence pulls elements from a caller-supplied function.
type funcSequence[T any] struct {
	claimGuard
	pull func() (T, error)
	done bool
}

// FromFunc returns a sequence that obtains each element by calling pull.
// The function reports exhaustion by returning io.EOF; any other error
// ends the sequence and surfaces to the consumer.
func FromFunc[T any](pull func() (T, error)) Sequence[T] {
	if pull == nil {
		panic("query: FromFunc requires a pull function")
	}
	return &funcSequence[T]{pull: pull}
}

func (s *funcSequence[T]) Next() (T, error) {
	var zero T
	if s.done {
		return zero, io.EOF
	}
	item, err := s.pull()
	if err != nil {
		s.done = true
		return zero, err
	}
	return item, nil
}

func (s *funcSequence[T]) Close() error {
	s.done = true
	s.pull = nil
	return nil
}

// seqSequence adapts a Go range-over-func iterator to the pull interface.
type seqSequence[T any] struct {
	claimGuard
	next func() (T, bool)
	stop func()
	done bool
}

// FromSeq returns a sequence over the values produced by seq.
func FromSeq[T any](seq iter.Seq[T]) Sequence[T] {
	if seq == nil {
		panic("query: FromSeq requires an iterator")
	}
	next, stop := iter.Pull(seq)
	return &seqSequence[T]{next: next, stop: stop}
}

func (s *seqSequence[T]) Next() (T, error) {
	var zero T
	if s.done {
		return zero, io.EOF
	}
	item, ok := s.next()
	if !ok {
		s.done = true
		s.stop()
		return zero, io.EOF
	}
	return item, nil
}

func (s *seqSequence[T]) Close() error {
	if !s.done {
		s.done = true
		s.stop()
	}
	return nil
}

// chanSequence yields values received from a channel until it closes.
type chanSequence[T any] struct {
	claimGuard
	ch   <-chan T
	done bool
}

// FromChannel returns a sequence over the values received from ch. The
// sequence ends when ch is closed. Close stops consuming but does not
// unblock senders; producers remain responsible for their own shutdown.
func FromChannel[T any](ch <-chan T) Sequence[T] {
	if ch == nil {
		panic("query: FromChannel requires a channel")
	}
	return &chanSequence[T]{ch: ch}
}

func (s *chanSequence[T]) Next() (T, error) {
	var zero T
	if s.done {
		return zero, io.EOF
	}
	item, ok := <-s.ch
	if !ok {
		s.done = true
		return zero, io.EOF
	}
	return item, nil
}

func (s *chanSequence[T]) Close() error {
	s.done = true
	return nil
}

// rangeSequence counts upward from a starting value.
type rangeSequence struct {
	claimGuard
	next      int
	remaining int
}

// Range returns a sequence of count consecutive integers beginning at start.
func Range(start, count int) Sequence[int] {
	if count < 0 {
		panic("query: Range requires a non-negative count")
	}
	return &rangeSequence{next: start, remaining: count}
}

func (s *rangeSequence) Next() (int, error) {
	if s.remaining <= 0 {
		return 0, io.EOF
	}
	item := s.next
	s.next++
	s.remaining--
	return item, nil
}

func (s *rangeSequence) Close() error {
	s.remaining = 0
	return nil
}

// repeatSequence yields the same element a fixed number of times.
type repeatSequence[T any] struct {
	claimGuard
	item      T
	remaining int
}

// Repeat returns a sequence that yields element count times.
func Repeat[T any](element T, count int) Sequence[T] {
	if count < 0 {
		panic("query: Repeat requires a non-negative count")
	}
	return &repeatSequence[T]{item: element, remaining: count}
}

func (s *repeatSequence[T]) Next() (T, error) {
	if s.remaining <= 0 {
		var zero T
		return zero, io.EOF
	}
	s.remaining--
	return s.item, nil
}

func (s *repeatSequence[T]) Close() error {
	s.remaining = 0
	return nil
}
