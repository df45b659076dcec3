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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSlice_DrainsInOrder(t *testing.T) {
	got, err := ToSlice(FromSlice([]string{"a", "b", "c"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestToSlice_EmptySequence(t *testing.T) {
	got, err := ToSlice(Empty[int]())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestForEach_AppliesInOrder(t *testing.T) {
	var seen []int
	err := ForEach(FromSlice([]int{1, 2, 3}), func(n int) error {
		seen = append(seen, n)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestForEach_StopsOnFunctionError(t *testing.T) {
	fnErr := errors.New("stop here")
	var seen []int
	err := ForEach(FromSlice([]int{1, 2, 3}), func(n int) error {
		if n == 2 {
			return fnErr
		}
		seen = append(seen, n)
		return nil
	})
	require.ErrorIs(t, err, fnErr)
	assert.Equal(t, []int{1}, seen)
}

func TestFirst_PullsExactlyOne(t *testing.T) {
	src := newTrackingSequence(10, 20, 30)

	got, err := First(Sequence[int](src))
	require.NoError(t, err)
	assert.Equal(t, 10, got)
	assert.Equal(t, 1, src.pulls)
	assert.True(t, src.closed)
}

func TestFirst_EmptySequence(t *testing.T) {
	_, err := First(Empty[int]())
	assert.ErrorIs(t, err, ErrEmptySequence)
}

func TestFirstOrDefault_FallbackOnEmpty(t *testing.T) {
	got, err := FirstOrDefault(Empty[int](), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestFirstOrDefault_FailureIsNotEmptiness(t *testing.T) {
	src := newTrackingSequence[int]()
	src.failAfter = 0
	src.failErr = errors.New("pull failed")

	_, err := FirstOrDefault(Sequence[int](src), 42)
	assert.ErrorIs(t, err, src.failErr)
}

func TestLast_DrainsToFinalElement(t *testing.T) {
	src := newTrackingSequence(10, 20, 30)

	got, err := Last(Sequence[int](src))
	require.NoError(t, err)
	assert.Equal(t, 30, got)
	assert.Equal(t, 4, src.pulls, "Last must drain to find the final element")
}

func TestLast_EmptySequence(t *testing.T) {
	_, err := Last(Empty[int]())
	assert.ErrorIs(t, err, ErrEmptySequence)
}

func TestLastOrDefault_FallbackOnEmpty(t *testing.T) {
	got, err := LastOrDefault(Empty[string](), "none")
	require.NoError(t, err)
	assert.Equal(t, "none", got)
}

func TestElementAt_PullsIndexPlusOne(t *testing.T) {
	src := newTrackingSequence(10, 20, 30, 40)

	got, err := ElementAt(Sequence[int](src), 2)
	require.NoError(t, err)
	assert.Equal(t, 30, got)
	assert.Equal(t, 3, src.pulls)
}

func TestElementAt_PastEnd(t *testing.T) {
	_, err := ElementAt(FromSlice([]int{1, 2}), 5)
	require.ErrorIs(t, err, ErrEmptySequence)
	assert.ErrorContains(t, err, "index 5")
}

func TestElementAt_NegativeIndex(t *testing.T) {
	_, err := ElementAt(FromSlice([]int{1, 2}), -1)
	assert.ErrorContains(t, err, "non-negative")
}

func TestCount_DrainsAndCounts(t *testing.T) {
	n, err := Count(Repeat("x", 17))
	require.NoError(t, err)
	assert.Equal(t, 17, n)
}

func TestCount_Empty(t *testing.T) {
	n, err := Count(Empty[int]())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestAny_PullsAtMostOne(t *testing.T) {
	src := newTrackingSequence(1, 2, 3)

	ok, err := Any(Sequence[int](src))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, src.pulls)
}

func TestAny_Empty(t *testing.T) {
	ok, err := Any(Empty[int]())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAnyMatch_StopsAtFirstMatch(t *testing.T) {
	calls := 0
	ok, err := AnyMatch(FromSlice([]int{1, 3, 4, 5}), func(n int) bool {
		calls++
		return n%2 == 0
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, calls)
}

func TestAnyMatch_NoMatch(t *testing.T) {
	ok, err := AnyMatch(FromSlice([]int{1, 3}), func(n int) bool { return n%2 == 0 })
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAll_EmptyIsTrue(t *testing.T) {
	ok, err := All(Empty[int](), func(n int) bool { return false })
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAll_StopsAtFirstFailure(t *testing.T) {
	calls := 0
	ok, err := All(FromSlice([]int{2, 4, 5, 6}), func(n int) bool {
		calls++
		return n%2 == 0
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, calls)
}

func TestContains_FindsValue(t *testing.T) {
	ok, err := Contains(FromSlice([]string{"a", "b"}), "b")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Contains(FromSlice([]string{"a", "b"}), "z")
	require.NoError(t, err)
	assert.False(t, ok)
}
