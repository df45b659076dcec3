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

import "errors"

// ErrEmptySequence indicates an element was requested from a sequence that
// produced none, such as First or Last on an empty sequence. ElementAt
// wraps it with the requested index when the sequence runs out early.
var ErrEmptySequence = errors.New("sequence contains no elements")

// ErrEmptyAggregate indicates an aggregation that needs at least one
// element was applied to an empty sequence, such as Average or a seedless
// Aggregate.
var ErrEmptyAggregate = errors.New("aggregate of empty sequence")

// ErrSequenceClaimed indicates a sequence was attached to more than one
// downstream consumer. Sequences are single-pass; each feeds exactly one
// operator or terminal. The error surfaces from the second consumer's
// Next, not at attachment time.
var ErrSequenceClaimed = errors.New("sequence already claimed by another consumer")
