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

	"github.com/cardinalhq/seqrunner/query"
)

var headCount int

var headCmd = &cobra.Command{
	Use:   "head [file]",
	Short: "Emit the first N rows and stop reading",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		src, err := openInput(args)
		if err != nil {
			return err
		}
		return streamRows(query.Take(src, headCount))
	},
}

func init() {
	headCmd.Flags().IntVarP(&headCount, "count", "n", 10, "number of rows to emit")
}
