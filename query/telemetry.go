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

package query

import (
	"fmt"

	"go.opentelemetry.io/otel"
	otelmetric "go.opentelemetry.io/otel/metric"
)

var (
	elementsSortedCounter   otelmetric.Int64Counter
	elementsOutCounter      otelmetric.Int64Counter
	parallelFailuresCounter otelmetric.Int64Counter
)

func init() {
	meter := otel.Meter("github.com/cardinalhq/seqrunner/query")

	var err error
	elementsSortedCounter, err = meter.Int64Counter(
		"seqrunner.query.elements.sorted",
		otelmetric.WithDescription("Number of elements buffered and sorted by ordering engines"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create elements.sorted counter: %w", err))
	}

	elementsOutCounter, err = meter.Int64Counter(
		"seqrunner.query.elements.out",
		otelmetric.WithDescription("Number of elements delivered by draining terminal operations"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create elements.out counter: %w", err))
	}

	parallelFailuresCounter, err = meter.Int64Counter(
		"seqrunner.query.parallel.failures",
		otelmetric.WithDescription("Number of element function failures in parallel operations"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create parallel.failures counter: %w", err))
	}
}
