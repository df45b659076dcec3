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
	"context"
	"errors"
	"fmt"
	"io"
)

// Terminal operations. Every terminal claims the chain and closes it on
// all exit paths, success or failure, so a chain finished by a terminal
// needs no separate Close.

// ToSlice drains src into a slice in pull order.
func ToSlice[T any](src Sequence[T]) ([]T, error) {
	seq := attach(src)
	defer drainClose(seq)

	var out []T
	for {
		item, err := seq.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				elementsOutCounter.Add(context.Background(), int64(len(out)))
				return out, nil
			}
			return nil, err
		}
		out = append(out, item)
	}
}

// ForEach applies fn to every element of src in pull order, stopping on
// the first error from fn or the upstream.
func ForEach[T any](src Sequence[T], fn func(T) error) error {
	if fn == nil {
		panic("query: ForEach requires a function")
	}
	seq := attach(src)
	defer drainClose(seq)

	var n int64
	for {
		item, err := seq.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				elementsOutCounter.Add(context.Background(), n)
				return nil
			}
			return err
		}
		if err := fn(item); err != nil {
			return err
		}
		n++
	}
}

// First returns the first element of src, pulling exactly one element.
// Returns ErrEmptySequence if src yields nothing.
func First[T any](src Sequence[T]) (T, error) {
	seq := attach(src)
	defer drainClose(seq)

	var zero T
	item, err := seq.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return zero, ErrEmptySequence
		}
		return zero, err
	}
	return item, nil
}

// FirstOrDefault returns the first element of src, or fallback if src
// yields nothing. Failures other than emptiness still surface.
func FirstOrDefault[T any](src Sequence[T], fallback T) (T, error) {
	item, err := First(src)
	if errors.Is(err, ErrEmptySequence) {
		return fallback, nil
	}
	return item, err
}

// Last returns the final element of src, draining it completely.
// Returns ErrEmptySequence if src yields nothing.
func Last[T any](src Sequence[T]) (T, error) {
	seq := attach(src)
	defer drainClose(seq)

	var last T
	found := false
	for {
		item, err := seq.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if !found {
					var zero T
					return zero, ErrEmptySequence
				}
				return last, nil
			}
			var zero T
			return zero, err
		}
		last = item
		found = true
	}
}

// LastOrDefault returns the final element of src, or fallback if src
// yields nothing.
func LastOrDefault[T any](src Sequence[T], fallback T) (T, error) {
	item, err := Last(src)
	if errors.Is(err, ErrEmptySequence) {
		return fallback, nil
	}
	return item, err
}

// ElementAt returns the element of src at the given zero-based index,
// pulling index+1 elements and no more. A sequence that runs out first
// yields an error wrapping ErrEmptySequence.
func ElementAt[T any](src Sequence[T], index int) (T, error) {
	var zero T
	if index < 0 {
		return zero, fmt.Errorf("element index must be non-negative, got %d", index)
	}
	seq := attach(src)
	defer drainClose(seq)

	for i := 0; ; i++ {
		item, err := seq.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return zero, fmt.Errorf("element at index %d: %w", index, ErrEmptySequence)
			}
			return zero, err
		}
		if i == index {
			return item, nil
		}
	}
}

// Count drains src and returns the number of elements it yielded.
func Count[T any](src Sequence[T]) (int, error) {
	seq := attach(src)
	defer drainClose(seq)

	n := 0
	for {
		_, err := seq.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return 0, err
		}
		n++
	}
}

// Any reports whether src yields at least one element, pulling at most one.
func Any[T any](src Sequence[T]) (bool, error) {
	seq := attach(src)
	defer drainClose(seq)

	_, err := seq.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AnyMatch reports whether any element of src satisfies predicate,
// stopping at the first match.
func AnyMatch[T any](src Sequence[T], predicate func(T) bool) (bool, error) {
	if predicate == nil {
		panic("query: AnyMatch requires a predicate")
	}
	seq := attach(src)
	defer drainClose(seq)

	for {
		item, err := seq.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}
		if predicate(item) {
			return true, nil
		}
	}
}

// All reports whether every element of src satisfies predicate, stopping
// at the first failure. All of an empty sequence is true.
func All[T any](src Sequence[T], predicate func(T) bool) (bool, error) {
	if predicate == nil {
		panic("query: All requires a predicate")
	}
	seq := attach(src)
	defer drainClose(seq)

	for {
		item, err := seq.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return true, nil
			}
			return false, err
		}
		if !predicate(item) {
			return false, nil
		}
	}
}

// Contains reports whether src yields an element equal to value, stopping
// at the first match.
func Contains[T comparable](src Sequence[T], value T) (bool, error) {
	return AnyMatch(src, func(item T) bool { return item == value })
}
