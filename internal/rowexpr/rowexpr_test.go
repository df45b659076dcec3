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

package rowexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/seqrunner/rows"
)

func TestParse(t *testing.T) {
	tests := []struct {
		expr      string
		wantField string
		wantOp    Op
		wantValue any
	}{
		{"age >= 21", "age", OpGe, int64(21)},
		{"age<=21", "age", OpLe, int64(21)},
		{"score > 1.5", "score", OpGt, 1.5},
		{"name == \"Ada Lovelace\"", "name", OpEq, "Ada Lovelace"},
		{"name == 'x'", "name", OpEq, "x"},
		{"name != bare", "name", OpNe, "bare"},
		{"active == true", "active", OpEq, true},
		{"deleted == false", "deleted", OpEq, false},
		{"parent == null", "parent", OpEq, nil},
		{"n < -3", "n", OpLt, int64(-3)},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, p.Field)
			assert.Equal(t, tt.wantOp, p.Op)
			assert.Equal(t, tt.wantValue, p.Value)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []string{
		"no operator here",
		"== 5",
		"age >=",
		"",
	}
	for _, expr := range tests {
		_, err := Parse(expr)
		assert.Error(t, err, "expression %q", expr)
	}
}

func TestPredicate_Match(t *testing.T) {
	row := rows.Row{
		"age":    int64(30),
		"score":  91.5,
		"name":   "alice",
		"active": true,
	}

	tests := []struct {
		expr string
		want bool
	}{
		{"age == 30", true},
		{"age != 30", false},
		{"age < 40", true},
		{"age <= 30", true},
		{"age > 30", false},
		{"score >= 91.5", true},
		{"score > 91", true},
		{"name == alice", true},
		{"name < bob", true},
		{"active == true", true},
		{"missing == null", true},
		{"age == null", false},
		{"missing != null", false},
		// Ordering against a missing field never matches
		{"missing < 10", false},
		{"missing > 10", false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Match(row))
		})
	}
}

func TestMatchAll_Conjunction(t *testing.T) {
	row := rows.Row{"a": int64(1), "b": int64(2)}

	preds, err := ParseAll([]string{"a == 1", "b > 1"})
	require.NoError(t, err)
	assert.True(t, MatchAll(preds, row))

	preds, err = ParseAll([]string{"a == 1", "b > 5"})
	require.NoError(t, err)
	assert.False(t, MatchAll(preds, row))
}

func TestMatchAll_EmptyMatchesEverything(t *testing.T) {
	assert.True(t, MatchAll(nil, rows.Row{"a": int64(1)}))
}
