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
	"log/slog"
	"math"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/seqrunner/query"
	"github.com/cardinalhq/seqrunner/rows"
)

var statsField string

// fieldStats accumulates everything in one pass, since the input can only
// be iterated once.
type fieldStats struct {
	rows    int64
	numeric int64
	skipped int64
	sum     float64
	min     float64
	max     float64
}

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Summarize a numeric field",
	Long: `Summarize a numeric field: row count, numeric value count, min,
max, sum, and average, emitted as a single JSON object. Values that are
missing or not numeric are counted but otherwise ignored.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		src, err := openInput(args)
		if err != nil {
			return err
		}
		field := statsField
		seed := fieldStats{min: math.Inf(1), max: math.Inf(-1)}
		st, err := query.Aggregate(src, seed, func(st fieldStats, r rows.Row) fieldStats {
			st.rows++
			v, ok := rows.Number(r[field])
			if !ok {
				st.skipped++
				return st
			}
			st.numeric++
			st.sum += v
			st.min = math.Min(st.min, v)
			st.max = math.Max(st.max, v)
			return st
		})
		if err != nil {
			return err
		}
		if st.skipped > 0 {
			slog.Warn("ignored values that are not numeric", slog.Int64("count", st.skipped))
		}

		out := rows.Row{
			"field":   field,
			"rows":    st.rows,
			"numeric": st.numeric,
			"sum":     st.sum,
		}
		if st.numeric > 0 {
			out["min"] = st.min
			out["max"] = st.max
			out["avg"] = st.sum / float64(st.numeric)
		} else {
			out["min"] = nil
			out["max"] = nil
			out["avg"] = nil
		}

		w := outputWriter()
		if err := w.Write(out); err != nil {
			_ = w.Close()
			return err
		}
		return w.Close()
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsField, "field", "", "field to summarize")
	_ = statsCmd.MarkFlagRequired("field")
}
