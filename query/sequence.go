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

import "sync/atomic"

// Sequence is the core interface for pulling elements from a lazily
// evaluated operator chain.
type Sequence[T any] interface {
	// Next returns the next element.
	// Returns io.EOF when the sequence is exhausted.
	// Returns error for any upstream failures.
	Next() (T, error)

	// Close releases any resources held by the sequence and its upstream chain.
	Close() error
}

// claimable is implemented by sequences that track whether a downstream
// consumer has attached. All sequences built by this package implement it
// via an embedded claimGuard.
type claimable interface {
	claim() bool
}

// claimGuard records downstream ownership of a sequence.
// The zero value is unclaimed.
type claimGuard struct {
	claimed atomic.Bool
}

func (g *claimGuard) claim() bool {
	return g.claimed.CompareAndSwap(false, true)
}

// attach claims src on behalf of a newly constructed downstream consumer.
// If src already has a consumer, the returned sequence reports
// ErrSequenceClaimed from Next rather than failing at construction time,
// matching the rest of the package's lazy error surfacing. Sequences from
// outside this package cannot be tracked and are returned as-is.
func attach[T any](src Sequence[T]) Sequence[T] {
	if c, ok := src.(claimable); ok && !c.claim() {
		return &claimedSequence[T]{}
	}
	return src
}

// claimedSequence stands in for a sequence that was attached to a second
// consumer. Every pull fails; Close is a no-op since the first consumer
// owns the upstream.
type claimedSequence[T any] struct{}

func (s *claimedSequence[T]) Next() (T, error) {
	var zero T
	return zero, ErrSequenceClaimed
}

func (s *claimedSequence[T]) Close() error { return nil }

// drainClose releases a chain from a terminal operation. Close failures are
// deliberately not conflated with the terminal's result; the chain is spent
// either way.
func drainClose[T any](src Sequence[T]) {
	_ = src.Close()
}
