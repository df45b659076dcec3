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

	mapset "github.com/deckarep/golang-set/v2"
)

// distinctSequence forwards the first occurrence of each key and drops the
// rest.
type distinctSequence[T any, K comparable] struct {
	claimGuard
	src    Sequence[T]
	key    func(T) K
	seen   mapset.Set[K]
	closed bool
}

// Distinct returns a sequence of the distinct elements of src, keeping the
// first occurrence of each and preserving their order.
func Distinct[T comparable](src Sequence[T]) Sequence[T] {
	return DistinctBy(src, func(item T) T { return item })
}

// DistinctBy returns a sequence of the elements of src whose keys have not
// been seen before. The first element carrying each key wins.
func DistinctBy[T any, K comparable](src Sequence[T], key func(T) K) Sequence[T] {
	if key == nil {
		panic("query: DistinctBy requires a key function")
	}
	return &distinctSequence[T, K]{
		src:  attach(src),
		key:  key,
		seen: mapset.NewSet[K](),
	}
}

func (s *distinctSequence[T, K]) Next() (T, error) {
	var zero T
	if s.closed {
		return zero, io.EOF
	}
	for {
		item, err := s.src.Next()
		if err != nil {
			return zero, err
		}
		if s.seen.Add(s.key(item)) {
			return item, nil
		}
	}
}

func (s *distinctSequence[T, K]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.seen = nil
	return s.src.Close()
}

// collectKeys drains seq, applies key to every element, and closes it.
func collectKeys[T any, K comparable](seq Sequence[T], key func(T) K) (mapset.Set[K], error) {
	defer drainClose(seq)

	keys := mapset.NewSet[K]()
	for {
		item, err := seq.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return keys, nil
			}
			return nil, err
		}
		keys.Add(key(item))
	}
}

// exceptSequence yields the distinct elements of the first sequence whose
// keys do not occur in the second. The second sequence is drained in full
// on the first pull; the first stays lazy.
type exceptSequence[T any, K comparable] struct {
	claimGuard
	src      Sequence[T]
	second   Sequence[T]
	key      func(T) K
	excluded mapset.Set[K]
	seen     mapset.Set[K]
	closed   bool
}

// Except returns a sequence of the distinct elements of first that are not
// present in second.
func Except[T comparable](first, second Sequence[T]) Sequence[T] {
	return ExceptBy(first, second, func(item T) T { return item })
}

// ExceptBy is Except with membership decided by key, applied to the
// elements of both sequences.
func ExceptBy[T any, K comparable](first, second Sequence[T], key func(T) K) Sequence[T] {
	if key == nil {
		panic("query: ExceptBy requires a key function")
	}
	return &exceptSequence[T, K]{
		src:    attach(first),
		second: attach(second),
		key:    key,
		seen:   mapset.NewSet[K](),
	}
}

func (s *exceptSequence[T, K]) Next() (T, error) {
	var zero T
	if s.closed {
		return zero, io.EOF
	}
	if s.excluded == nil {
		excluded, err := collectKeys(s.second, s.key)
		if err != nil {
			return zero, err
		}
		s.excluded = excluded
		s.second = nil
	}
	for {
		item, err := s.src.Next()
		if err != nil {
			return zero, err
		}
		k := s.key(item)
		if s.excluded.Contains(k) {
			continue
		}
		if s.seen.Add(k) {
			return item, nil
		}
	}
}

func (s *exceptSequence[T, K]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.second != nil {
		if err := s.second.Close(); err != nil {
			errs = append(errs, err)
		}
		s.second = nil
	}
	if err := s.src.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// intersectSequence yields the distinct elements of the first sequence
// whose keys occur in the second. The second sequence is drained in full on
// the first pull; the first stays lazy.
type intersectSequence[T any, K comparable] struct {
	claimGuard
	src     Sequence[T]
	second  Sequence[T]
	key     func(T) K
	allowed mapset.Set[K]
	closed  bool
}

// Intersect returns a sequence of the distinct elements of first that are
// also present in second, in first's order.
func Intersect[T comparable](first, second Sequence[T]) Sequence[T] {
	return IntersectBy(first, second, func(item T) T { return item })
}

// IntersectBy is Intersect with membership decided by key, applied to the
// elements of both sequences.
func IntersectBy[T any, K comparable](first, second Sequence[T], key func(T) K) Sequence[T] {
	if key == nil {
		panic("query: IntersectBy requires a key function")
	}
	return &intersectSequence[T, K]{
		src:    attach(first),
		second: attach(second),
		key:    key,
	}
}

func (s *intersectSequence[T, K]) Next() (T, error) {
	var zero T
	if s.closed {
		return zero, io.EOF
	}
	if s.allowed == nil {
		allowed, err := collectKeys(s.second, s.key)
		if err != nil {
			return zero, err
		}
		s.allowed = allowed
		s.second = nil
	}
	for {
		item, err := s.src.Next()
		if err != nil {
			return zero, err
		}
		k := s.key(item)
		if s.allowed.Contains(k) {
			// Each key matches at most once, keeping the result distinct
			s.allowed.Remove(k)
			return item, nil
		}
	}
}

func (s *intersectSequence[T, K]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.second != nil {
		if err := s.second.Close(); err != nil {
			errs = append(errs, err)
		}
		s.second = nil
	}
	if err := s.src.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Union returns a sequence of the distinct elements of first and second
// combined, first's elements leading. Both sequences stay lazy; second is
// pulled only after first is exhausted.
func Union[T comparable](first, second Sequence[T]) Sequence[T] {
	return Distinct(Concat(first, second))
}

// UnionBy is Union with distinctness decided by key.
func UnionBy[T any, K comparable](first, second Sequence[T], key func(T) K) Sequence[T] {
	return DistinctBy(Concat(first, second), key)
}
