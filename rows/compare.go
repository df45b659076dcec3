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
	"cmp"
	"fmt"
)

// Compare orders two field values. Numbers compare numerically across
// int64 and float64, strings lexically, and bool with false first. Nil
// sorts after every concrete value so missing fields land at the end of an
// ascending sort. Mismatched or unknown types fall back to comparing their
// string forms.
func Compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return 1
		default:
			return -1
		}
	}

	switch va := a.(type) {
	case int64:
		switch vb := b.(type) {
		case int64:
			return cmp.Compare(va, vb)
		case float64:
			return cmp.Compare(float64(va), vb)
		}
	case float64:
		switch vb := b.(type) {
		case float64:
			return cmp.Compare(va, vb)
		case int64:
			return cmp.Compare(va, float64(vb))
		}
	case string:
		if vb, ok := b.(string); ok {
			return cmp.Compare(va, vb)
		}
	case bool:
		if vb, ok := b.(bool); ok {
			switch {
			case va == vb:
				return 0
			case !va:
				return -1
			default:
				return 1
			}
		}
	}

	return cmp.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}
