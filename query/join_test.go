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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type team struct {
	id   int
	name string
}

type player struct {
	teamID int
	name   string
}

func TestJoin_PairsMatchingKeys(t *testing.T) {
	teams := []team{{1, "red"}, {2, "blue"}}
	players := []player{
		{2, "pat"},
		{1, "alex"},
		{2, "sam"},
	}

	seq := Join(
		FromSlice(teams),
		FromSlice(players),
		func(tm team) int { return tm.id },
		func(p player) int { return p.teamID },
		func(tm team, p player) string { return fmt.Sprintf("%s/%s", tm.name, p.name) },
	)

	// Outer order first, inner encounter order within each outer element
	got := drainAll(t, seq)
	assert.Equal(t, []string{"red/alex", "blue/pat", "blue/sam"}, got)
}

func TestJoin_UnmatchedProduceNothing(t *testing.T) {
	teams := []team{{1, "red"}, {3, "green"}}
	players := []player{{1, "alex"}, {9, "drifter"}}

	seq := Join(
		FromSlice(teams),
		FromSlice(players),
		func(tm team) int { return tm.id },
		func(p player) int { return p.teamID },
		func(tm team, p player) string { return tm.name + "/" + p.name },
	)

	got := drainAll(t, seq)
	assert.Equal(t, []string{"red/alex"}, got)
}

func TestJoin_InnerDrainedOnFirstPull(t *testing.T) {
	inner := newTrackingSequence(player{1, "alex"}, player{1, "sam"})

	seq := Join(
		FromSlice([]team{{1, "red"}}),
		Sequence[player](inner),
		func(tm team) int { return tm.id },
		func(p player) int { return p.teamID },
		func(tm team, p player) string { return p.name },
	)
	assert.Equal(t, 0, inner.pulls, "construction must not pull the inner sequence")

	first, err := seq.Next()
	require.NoError(t, err)
	assert.Equal(t, "alex", first)
	assert.Equal(t, 3, inner.pulls, "first pull drains the inner sequence in full")
	assert.True(t, inner.closed)
}

func TestGroupJoin_EveryOuterAppears(t *testing.T) {
	teams := []team{{1, "red"}, {2, "blue"}, {3, "green"}}
	players := []player{
		{1, "alex"},
		{2, "pat"},
		{1, "sam"},
	}

	seq := GroupJoin(
		FromSlice(teams),
		FromSlice(players),
		func(tm team) int { return tm.id },
		func(p player) int { return p.teamID },
		func(tm team, roster []player) string {
			return fmt.Sprintf("%s:%d", tm.name, len(roster))
		},
	)

	got := drainAll(t, seq)
	assert.Equal(t, []string{"red:2", "blue:1", "green:0"}, got)
}

func TestGroupJoin_BucketKeepsEncounterOrder(t *testing.T) {
	players := []player{
		{1, "zoe"},
		{1, "abe"},
	}

	seq := GroupJoin(
		FromSlice([]team{{1, "red"}}),
		FromSlice(players),
		func(tm team) int { return tm.id },
		func(p player) int { return p.teamID },
		func(_ team, roster []player) []player { return roster },
	)

	got := drainAll(t, seq)
	require.Len(t, got, 1)
	require.Len(t, got[0], 2)
	assert.Equal(t, "zoe", got[0][0].name)
	assert.Equal(t, "abe", got[0][1].name)
}
