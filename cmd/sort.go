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

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/seqrunner/query"
	"github.com/cardinalhq/seqrunner/rows"
)

var sortBy []string

var sortCmd = &cobra.Command{
	Use:   "sort [file]",
	Short: "Sort rows by one or more fields",
	Long: `Sort rows by one or more fields. Each --by key is FIELD or
FIELD:asc or FIELD:desc; earlier keys take precedence. Missing fields sort
after present values.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		keys, err := parseSortKeys(sortBy)
		if err != nil {
			return err
		}
		src, err := openInput(args)
		if err != nil {
			return err
		}
		return streamRows(query.OrderBy(src, keys...))
	},
}

func init() {
	sortCmd.Flags().StringArrayVar(&sortBy, "by", nil, "sort key as FIELD[:asc|:desc], repeatable")
	_ = sortCmd.MarkFlagRequired("by")
}

// parseSortKeys turns FIELD[:asc|:desc] specs into sort keys. The text
// after the last colon is the direction; a spec without a colon sorts
// ascending.
func parseSortKeys(specs []string) ([]query.SortKey[rows.Row], error) {
	keys := make([]query.SortKey[rows.Row], 0, len(specs))
	for _, spec := range specs {
		field := spec
		dir := query.Ascending
		if i := strings.LastIndex(spec, ":"); i >= 0 {
			d, err := query.ParseDirection(spec[i+1:])
			if err != nil {
				return nil, fmt.Errorf("invalid sort key %q: %w", spec, err)
			}
			field = spec[:i]
			dir = d
		}
		if field == "" {
			return nil, fmt.Errorf("invalid sort key %q: missing field name", spec)
		}
		k, err := query.NewSortKey(dir, rows.Field(field), rows.Compare)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}
