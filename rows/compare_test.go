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

package rows

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"int64 less", int64(1), int64(2), -1},
		{"int64 equal", int64(5), int64(5), 0},
		{"float64 greater", 2.5, 1.5, 1},
		{"int64 vs float64", int64(2), 2.5, -1},
		{"float64 vs int64", 2.5, int64(2), 1},
		{"string lexical", "apple", "banana", -1},
		{"bool false first", false, true, -1},
		{"bool equal", true, true, 0},
		{"nil after value", nil, int64(1), 1},
		{"value before nil", "x", nil, -1},
		{"both nil", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.a, tt.b)
			switch {
			case tt.want < 0:
				assert.Negative(t, got)
			case tt.want > 0:
				assert.Positive(t, got)
			default:
				assert.Zero(t, got)
			}
		})
	}
}

func TestCompare_MismatchedTypesFallBackToStrings(t *testing.T) {
	// "1" vs true compares "1" < "true" lexically
	assert.Negative(t, Compare("1", true))
	assert.Positive(t, Compare(true, "1"))
}

func TestField_MissingExtractsNil(t *testing.T) {
	r := Row{"a": int64(1)}

	assert.Equal(t, int64(1), Field("a")(r))
	assert.Nil(t, Field("missing")(r))
}

func TestNumber_Coercion(t *testing.T) {
	n, ok := Number(int64(4))
	assert.True(t, ok)
	assert.Equal(t, 4.0, n)

	n, ok = Number(4.5)
	assert.True(t, ok)
	assert.Equal(t, 4.5, n)

	_, ok = Number("4")
	assert.False(t, ok)
}

func TestCopy_IsIndependent(t *testing.T) {
	original := Row{"a": int64(1)}
	copied := Copy(original)
	copied["a"] = int64(2)

	assert.Equal(t, int64(1), original["a"])
}
