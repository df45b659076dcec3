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

// Package rowexpr parses field comparison predicates of the form
// "FIELD OP VALUE" for filtering rows. Supported operators are ==, !=,
// <, <=, > and >=; values may be numbers, quoted or bare strings, true,
// false, or null.
package rowexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cardinalhq/seqrunner/rows"
)

// Op identifies a comparison operator.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Predicate is one parsed field comparison.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

// Two-character operators first so "<=" is not read as "<".
var opTokens = []struct {
	token string
	op    Op
}{
	{"==", OpEq},
	{"!=", OpNe},
	{"<=", OpLe},
	{">=", OpGe},
	{"<", OpLt},
	{">", OpGt},
}

// Parse converts an expression such as "age >= 21" or `name == "Ada"`
// into a Predicate.
func Parse(expr string) (Predicate, error) {
	for _, candidate := range opTokens {
		idx := strings.Index(expr, candidate.token)
		if idx < 0 {
			continue
		}
		field := strings.TrimSpace(expr[:idx])
		if field == "" {
			return Predicate{}, fmt.Errorf("missing field in expression %q", expr)
		}
		raw := strings.TrimSpace(expr[idx+len(candidate.token):])
		if raw == "" {
			return Predicate{}, fmt.Errorf("missing value in expression %q", expr)
		}
		return Predicate{Field: field, Op: candidate.op, Value: parseLiteral(raw)}, nil
	}
	return Predicate{}, fmt.Errorf("no comparison operator in expression %q", expr)
}

// ParseAll parses each expression; the result is matched as a conjunction.
func ParseAll(exprs []string) ([]Predicate, error) {
	preds := make([]Predicate, 0, len(exprs))
	for _, expr := range exprs {
		p, err := Parse(expr)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func parseLiteral(s string) any {
	switch s {
	case "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Match reports whether the row satisfies the predicate. Equality treats
// null as a value, so "f == null" matches a missing field. The ordering
// operators never match when either side is null.
func (p Predicate) Match(r rows.Row) bool {
	v := r[p.Field]
	switch p.Op {
	case OpEq:
		return rows.Compare(v, p.Value) == 0
	case OpNe:
		return rows.Compare(v, p.Value) != 0
	}
	if v == nil || p.Value == nil {
		return false
	}
	c := rows.Compare(v, p.Value)
	switch p.Op {
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	default:
		return false
	}
}

// MatchAll reports whether the row satisfies every predicate.
func MatchAll(preds []Predicate, r rows.Row) bool {
	for _, p := range preds {
		if !p.Match(r) {
			return false
		}
	}
	return true
}
