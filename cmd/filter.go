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
	"github.com/spf13/cobra"

	"github.com/cardinalhq/seqrunner/internal/rowexpr"
	"github.com/cardinalhq/seqrunner/query"
	"github.com/cardinalhq/seqrunner/rows"
)

var filterWhere []string

var filterCmd = &cobra.Command{
	Use:   "filter [file]",
	Short: "Keep rows matching every --where predicate",
	Long: `Keep rows matching every --where predicate. A predicate is
'FIELD OP VALUE' with OP one of == != < <= > >=. Values may be numbers,
quoted or bare strings, true, false, or null.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		preds, err := rowexpr.ParseAll(filterWhere)
		if err != nil {
			return err
		}
		src, err := openInput(args)
		if err != nil {
			return err
		}
		seq := query.Where(src, func(r rows.Row) bool {
			return rowexpr.MatchAll(preds, r)
		})
		return streamRows(seq)
	},
}

func init() {
	filterCmd.Flags().StringArrayVar(&filterWhere, "where", nil, "predicate as 'FIELD OP VALUE', repeatable, ANDed together")
	_ = filterCmd.MarkFlagRequired("where")
}
