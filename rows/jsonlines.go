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
	"strings"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
)

// maxLineSizeBytes caps a single input line for the line scanners.
const maxLineSizeBytes = 1024 * 1024

// JSONLinesSource reads one row per line from a JSON lines stream. It
// implements query.Sequence[Row]; blank lines are skipped.
type JSONLinesSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
	closed  bool
}

// NewJSONLinesSource creates a JSONLinesSource for the given io.ReadCloser.
// The source takes ownership of the closer and closes it when Close is
// called.
func NewJSONLinesSource(reader io.ReadCloser) *JSONLinesSource {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSizeBytes)

	return &JSONLinesSource{
		scanner: scanner,
		closer:  reader,
	}
}

func (s *JSONLinesSource) Next() (Row, error) {
	if s.closed {
		return nil, io.EOF
	}

	for s.scanner.Scan() {
		s.line++
		text := strings.TrimSpace(s.scanner.Text())
		if text == "" {
			continue
		}

		var row Row
		if err := json.Unmarshal([]byte(text), &row); err != nil {
			return nil, fmt.Errorf("JSON parse error at line %d: %w", s.line, err)
		}
		rowsInCounter.Add(context.Background(), 1, otelmetric.WithAttributes(
			attribute.String("source", "jsonlines"),
		))
		return row, nil
	}

	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error at line %d: %w", s.line+1, err)
	}
	return nil, io.EOF
}

// Close closes the source and the underlying io.ReadCloser.
func (s *JSONLinesSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.closer != nil {
		err = s.closer.Close()
		s.closer = nil
	}
	s.scanner = nil
	return err
}
