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
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
)

// CSVSource reads one row per record from a CSV stream with a header row.
// It implements query.Sequence[Row]. Values are parsed as int64 or float64
// when they look numeric and kept as strings otherwise; records whose
// column count does not match the header are dropped.
type CSVSource struct {
	reader  *csv.Reader
	headers []string
	closer  io.Closer
	line    int
	closed  bool
}

// NewCSVSource creates a CSVSource for the given io.ReadCloser, consuming
// the header row immediately. The source takes ownership of the closer and
// closes it when Close is called.
func NewCSVSource(reader io.ReadCloser) (*CSVSource, error) {
	csvReader := csv.NewReader(reader)
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err != nil {
		_ = reader.Close()
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) == 0 {
		_ = reader.Close()
		return nil, errors.New("CSV input has no headers")
	}

	return &CSVSource{
		reader:  csvReader,
		headers: headers,
		closer:  reader,
	}, nil
}

func (s *CSVSource) Next() (Row, error) {
	if s.closed {
		return nil, io.EOF
	}

	for {
		record, err := s.reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("CSV read error at line %d: %w", s.line+2, err)
		}
		s.line++

		if len(record) != len(s.headers) {
			rowsDroppedCounter.Add(context.Background(), 1, otelmetric.WithAttributes(
				attribute.String("source", "csv"),
				attribute.String("reason", "column_count_mismatch"),
			))
			continue
		}

		row := make(Row, len(record))
		for i, value := range record {
			row[s.headers[i]] = parseValue(value)
		}
		rowsInCounter.Add(context.Background(), 1, otelmetric.WithAttributes(
			attribute.String("source", "csv"),
		))
		return row, nil
	}
}

// parseValue attempts to parse a string value as a number if possible.
func parseValue(value string) any {
	trimmed := strings.TrimSpace(value)

	// Empty strings remain as empty strings
	if trimmed == "" {
		return ""
	}

	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	return value
}

// Close closes the source and the underlying io.ReadCloser.
func (s *CSVSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.closer != nil {
		err = s.closer.Close()
		s.closer = nil
	}
	s.reader = nil
	return err
}
