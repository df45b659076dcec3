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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/seqrunner/query"
	"github.com/cardinalhq/seqrunner/rows"
)

var distinctKey string

var distinctCmd = &cobra.Command{
	Use:   "distinct [file]",
	Short: "Drop rows whose key was already seen",
	Long: `Drop rows whose key was already seen, keeping the first
occurrence. With --key the key is a single field value; without it the
whole row is the key.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		src, err := openInput(args)
		if err != nil {
			return err
		}
		var seq query.Sequence[rows.Row]
		if distinctKey == "" {
			seq = query.DistinctBy(src, func(r rows.Row) string {
				return fingerprint(r)
			})
		} else {
			field := distinctKey
			seq = query.DistinctBy(src, func(r rows.Row) string {
				return fingerprint(r[field])
			})
		}
		return streamRows(seq)
	},
}

func init() {
	distinctCmd.Flags().StringVar(&distinctKey, "key", "", "field whose value identifies duplicates (default: whole row)")
}

// fingerprint renders a value in a canonical comparable form. JSON object
// keys marshal in sorted order, so equal rows produce equal fingerprints.
func fingerprint(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
