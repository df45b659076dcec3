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
	"io"

	"golang.org/x/exp/constraints"
)

// Number constrains the element types accepted by the numeric
// aggregations.
type Number interface {
	constraints.Integer | constraints.Float
}

// Min drains src and returns its smallest element.
// Returns ErrEmptyAggregate if src yields nothing.
func Min[T cmp.Ordered](src Sequence[T]) (T, error) {
	return AggregateSeedless(src, func(best, item T) T {
		return min(best, item)
	})
}

// Max drains src and returns its largest element.
// Returns ErrEmptyAggregate if src yields nothing.
func Max[T cmp.Ordered](src Sequence[T]) (T, error) {
	return AggregateSeedless(src, func(best, item T) T {
		return max(best, item)
	})
}

// MinBy drains src and returns the element with the smallest key. The
// first element to carry the minimal key wins ties.
// Returns ErrEmptyAggregate if src yields nothing.
func MinBy[T any, K cmp.Ordered](src Sequence[T], key func(T) K) (T, error) {
	if key == nil {
		panic("query: MinBy requires a key function")
	}
	return AggregateSeedless(src, func(best, item T) T {
		if key(item) < key(best) {
			return item
		}
		return best
	})
}

// MaxBy drains src and returns the element with the largest key. The
// first element to carry the maximal key wins ties.
// Returns ErrEmptyAggregate if src yields nothing.
func MaxBy[T any, K cmp.Ordered](src Sequence[T], key func(T) K) (T, error) {
	if key == nil {
		panic("query: MaxBy requires a key function")
	}
	return AggregateSeedless(src, func(best, item T) T {
		if key(item) > key(best) {
			return item
		}
		return best
	})
}

// Sum drains src and returns the total of its elements. The sum of an
// empty sequence is zero.
func Sum[T Number](src Sequence[T]) (T, error) {
	return Aggregate(src, T(0), func(total, item T) T { return total + item })
}

// SumBy drains src and returns the total of value applied to each element.
func SumBy[T any, N Number](src Sequence[T], value func(T) N) (N, error) {
	if value == nil {
		panic("query: SumBy requires a value function")
	}
	return Aggregate(src, N(0), func(total N, item T) N { return total + value(item) })
}

// Average drains src and returns the arithmetic mean of its elements,
// dividing by the number of elements actually processed.
// Returns ErrEmptyAggregate if src yields nothing.
func Average[T Number](src Sequence[T]) (float64, error) {
	return AverageBy(src, func(item T) T { return item })
}

// AverageBy drains src and returns the arithmetic mean of value applied to
// each element.
// Returns ErrEmptyAggregate if src yields nothing.
func AverageBy[T any, N Number](src Sequence[T], value func(T) N) (float64, error) {
	if value == nil {
		panic("query: AverageBy requires a value function")
	}
	seq := attach(src)
	defer drainClose(seq)

	var total float64
	var n int64
	for {
		item, err := seq.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if n == 0 {
					return 0, ErrEmptyAggregate
				}
				return total / float64(n), nil
			}
			return 0, err
		}
		total += float64(value(item))
		n++
	}
}

// Aggregate folds src left to right starting from seed.
func Aggregate[T, A any](src Sequence[T], seed A, fold func(A, T) A) (A, error) {
	if fold == nil {
		panic("query: Aggregate requires a fold function")
	}
	seq := attach(src)
	defer drainClose(seq)

	acc := seed
	for {
		item, err := seq.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return acc, nil
			}
			var zero A
			return zero, err
		}
		acc = fold(acc, item)
	}
}

// AggregateSeedless folds src left to right using the first element as the
// starting accumulator; folding begins with the second element.
// Returns ErrEmptyAggregate if src yields nothing.
func AggregateSeedless[T any](src Sequence[T], fold func(T, T) T) (T, error) {
	if fold == nil {
		panic("query: AggregateSeedless requires a fold function")
	}
	seq := attach(src)
	defer drainClose(seq)

	var zero T
	acc, err := seq.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return zero, ErrEmptyAggregate
		}
		return zero, err
	}
	for {
		item, err := seq.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return acc, nil
			}
			return zero, err
		}
		acc = fold(acc, item)
	}
}
