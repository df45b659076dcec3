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
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// JSONLinesWriter writes one row per line as JSON. Writes are buffered;
// Close flushes the buffer.
type JSONLinesWriter struct {
	buf     *bufio.Writer
	encoder *json.Encoder
	closer  io.Closer
	total   int64
	closed  bool
}

// NewJSONLinesWriter creates a JSONLinesWriter over w. When w is also an
// io.Closer, Close closes it after flushing.
func NewJSONLinesWriter(w io.Writer) *JSONLinesWriter {
	buf := bufio.NewWriter(w)
	closer, _ := w.(io.Closer)
	return &JSONLinesWriter{
		buf:     buf,
		encoder: json.NewEncoder(buf),
		closer:  closer,
	}
}

// Write appends one row as a JSON line.
func (w *JSONLinesWriter) Write(row Row) error {
	if w.closed {
		return fmt.Errorf("write to closed writer")
	}
	if err := w.encoder.Encode(row); err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}
	w.total++
	rowsOutCounter.Add(context.Background(), 1)
	return nil
}

// TotalRowsWritten returns the number of rows written so far.
func (w *JSONLinesWriter) TotalRowsWritten() int64 {
	return w.total
}

// Close flushes buffered output and closes the underlying writer when it
// is closable.
func (w *JSONLinesWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	if w.closer != nil {
		err := w.closer.Close()
		w.closer = nil
		return err
	}
	return nil
}
