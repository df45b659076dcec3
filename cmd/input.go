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
	"io"
	"log/slog"
	"os"

	"github.com/cardinalhq/seqrunner/config"
	"github.com/cardinalhq/seqrunner/query"
	"github.com/cardinalhq/seqrunner/rows"
)

// openInput returns a row sequence over the file named in args, or over
// stdin when no file (or "-") is given. The configured input format picks
// the source type.
func openInput(args []string) (query.Sequence[rows.Row], error) {
	var rc io.ReadCloser = os.Stdin
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		rc = f
	}

	switch cfg.Input.Format {
	case config.FormatCSV:
		src, err := rows.NewCSVSource(rc)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return rows.NewJSONLinesSource(rc), nil
	}
}

// consoleOut writes to stdout without exposing it as an io.Closer, so the
// row writer's Close cannot close the process's stdout.
type consoleOut struct{}

func (consoleOut) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func outputWriter() *rows.JSONLinesWriter {
	return rows.NewJSONLinesWriter(consoleOut{})
}

// streamRows drains seq into a JSON Lines writer on stdout.
func streamRows(seq query.Sequence[rows.Row]) error {
	w := outputWriter()
	if err := query.ForEach(seq, w.Write); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	slog.Info("stream complete", slog.Int64("rows", w.TotalRowsWritten()))
	return nil
}
