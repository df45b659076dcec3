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

// Package rows provides a generic row model for tabular data, sources that
// read rows from JSON lines and CSV streams as single-pass sequences, and a
// value comparison usable as a sort key over heterogeneous fields.
package rows

import "maps"

// Row represents a single data row as a map of field name to value. Values
// read from the built-in sources are int64, float64, string, bool, nil, or
// nested JSON containers.
type Row map[string]any

// Copy creates a shallow copy of a row.
func Copy(in Row) Row {
	out := make(Row, len(in))
	maps.Copy(out, in)
	return out
}

// Field returns an extractor for the named field, for building sort keys
// and projections over rows. Missing fields extract as nil.
func Field(name string) func(Row) any {
	return func(r Row) any { return r[name] }
}

// Number reports v as a float64 when it carries a numeric type.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
