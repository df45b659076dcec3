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

// Package query provides lazily evaluated, composable operators over
// single-pass sequences of arbitrary element types.
//
// # Overview
//
// A query is a chain of operators attached to a source. Constructing the
// chain performs no work; elements are computed one at a time as the
// consumer pulls them, and only as many as the consumer asks for. Sources
// wrap slices, channels, iterators, or caller-supplied pull functions, and
// operators cover projection, filtering, flattening, set operations,
// ordering, grouping, joining, and aggregation.
//
// # Core Interface
//
// All sources and operators implement a common pull interface:
//
//	type Sequence[T any] interface {
//	    Next() (T, error)  // Returns io.EOF when exhausted
//	    Close() error
//	}
//
// Sequences are single-pass: once exhausted they stay exhausted, and each
// sequence may feed exactly one downstream consumer. Attaching a second
// operator to an already-claimed sequence is detected, and the second
// consumer's pulls fail with ErrSequenceClaimed.
//
// Example usage:
//
//	evens := query.Where(query.Range(0, 100), func(n int) bool { return n%2 == 0 })
//	squares := query.Select(evens, func(n int) int { return n * n })
//	firstFive, err := query.ToSlice(query.Take(squares, 5))
//	if err != nil {
//	    return err
//	}
//	// firstFive == [0 4 16 36 64]; the source was pulled only 9 times
//
// # Ordering
//
// OrderBy defers sorting until the first pull. Additional sort keys chain
// with ThenBy, each key ascending or descending independently:
//
//	ordered := query.OrderBy(people, query.Desc(func(p Person) int { return p.Age })).
//	    ThenBy(query.Asc(func(p Person) string { return p.Name }))
//
// The engine buffers the upstream on first pull, computes one composite key
// per element, then yields incrementally from a heap. Elements with equal
// composite keys come back in unspecified order.
//
// # Terminals
//
// Terminal operations (ToSlice, First, Count, Sum, Aggregate, ...) drain or
// partially drain the chain and close it on every exit path, so callers
// that finish a query through a terminal do not need their own Close.
//
// # Resource Management
//
//   - Chains not finished by a terminal must be closed via Close()
//   - Close propagates upstream; composite operators close every child
//   - Caller-supplied function failures and panics surface from the pull
//     that triggered them, never at construction time
package query
