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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBy_AscendingKeysOneGroupPerKey(t *testing.T) {
	seq := GroupBy(FromSlice([]int{3, 1, 2, 1, 3}), func(n int) int { return n })

	groups := drainAll(t, seq)
	expectedOrder := []struct {
		key   int
		items []int
	}{
		{1, []int{1, 1}},
		{2, []int{2}},
		{3, []int{3, 3}},
	}
	require.Len(t, groups, len(expectedOrder))
	for i, expected := range expectedOrder {
		assert.Equal(t, expected.key, groups[i].Key, "Group %d key mismatch", i)
		assert.Equal(t, expected.items, groups[i].Items, "Group %d items mismatch", i)
	}
}

func TestGroupBy_WithinGroupOrderPreserved(t *testing.T) {
	words := []string{"bat", "ant", "cow", "asp", "bee"}

	seq := GroupBy(FromSlice(words), func(s string) string { return s[:1] })
	groups := drainAll(t, seq)

	require.Len(t, groups, 3)
	assert.Equal(t, []string{"ant", "asp"}, groups[0].Items)
	assert.Equal(t, []string{"bat", "bee"}, groups[1].Items)
	assert.Equal(t, []string{"cow"}, groups[2].Items)
}

func TestGroupBySelect_ProjectsElements(t *testing.T) {
	words := []string{"bat", "ant", "bee"}

	seq := GroupBySelect(FromSlice(words),
		func(s string) string { return s[:1] },
		func(s string) string { return strings.ToUpper(s) },
	)
	groups := drainAll(t, seq)

	require.Len(t, groups, 2)
	assert.Equal(t, "a", groups[0].Key)
	assert.Equal(t, []string{"ANT"}, groups[0].Items)
	assert.Equal(t, []string{"BAT", "BEE"}, groups[1].Items)
}

func TestGroupBy_EmptySource(t *testing.T) {
	seq := GroupBy(Empty[int](), func(n int) int { return n })

	_, err := seq.Next()
	assert.Equal(t, io.EOF, err)
}

func TestGroupBy_KeyExtractedOncePerElement(t *testing.T) {
	calls := 0
	seq := GroupBy(FromSlice([]int{2, 1, 2}), func(n int) int {
		calls++
		return n
	})

	drainAll(t, seq)
	assert.Equal(t, 3, calls)
}

func TestGroupBy_LoadFailureIsSticky(t *testing.T) {
	src := newTrackingSequence(1, 2, 3)
	src.failAfter = 1
	src.failErr = errors.New("grouping source failed")

	seq := GroupBy(Sequence[int](src), func(n int) int { return n })

	_, err := seq.Next()
	require.ErrorIs(t, err, src.failErr)
	assert.ErrorContains(t, err, "grouping load")

	_, err = seq.Next()
	assert.ErrorIs(t, err, src.failErr)
}
