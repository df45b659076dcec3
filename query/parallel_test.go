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
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectParallel_PreservesUpstreamOrder(t *testing.T) {
	// Later elements finish sooner; delivery order must not change
	fn := func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(8-n) * time.Millisecond)
		return n * 10, nil
	}

	got, err := ToSlice(SelectParallel(context.Background(), Range(0, 8), 4, fn))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 10, 20, 30, 40, 50, 60, 70}, got)
}

func TestSelectParallel_AppliesSelector(t *testing.T) {
	got, err := ToSlice(SelectParallel(context.Background(), FromSlice([]int{1, 2, 3}), 2,
		func(_ context.Context, n int) (int, error) { return n + 100, nil }))
	require.NoError(t, err)
	assert.Equal(t, []int{101, 102, 103}, got)
}

func TestSelectParallel_DefaultWorkerCount(t *testing.T) {
	got, err := ToSlice(SelectParallel(context.Background(), Range(0, 3), 0,
		func(_ context.Context, n int) (int, error) { return n, nil }))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestSelectParallel_ResultsBeforeFailureDelivered(t *testing.T) {
	boom := errors.New("element 3 failed")
	seq := SelectParallel(context.Background(), FromSlice([]int{1, 2, 3, 4}), 2,
		func(_ context.Context, n int) (int, error) {
			if n == 3 {
				return 0, boom
			}
			return n * 10, nil
		})
	defer func() { _ = seq.Close() }()

	first, err := seq.Next()
	require.NoError(t, err)
	assert.Equal(t, 10, first)
	second, err := seq.Next()
	require.NoError(t, err)
	assert.Equal(t, 20, second)

	_, err = seq.Next()
	require.ErrorIs(t, err, boom)

	// The failure is final
	_, err = seq.Next()
	assert.ErrorIs(t, err, boom)
}

func TestSelectParallel_UpstreamFailureSurfaces(t *testing.T) {
	src := newTrackingSequence(1, 2)
	src.failAfter = 2
	src.failErr = errors.New("upstream died")

	_, err := ToSlice(SelectParallel(context.Background(), Sequence[int](src), 2,
		func(_ context.Context, n int) (int, error) { return n, nil }))
	assert.ErrorIs(t, err, src.failErr)
}

func TestSelectParallel_WindowBoundsPrefetch(t *testing.T) {
	src := newTrackingSequence(1, 2, 3, 4, 5, 6)

	seq := SelectParallel(context.Background(), Sequence[int](src), 2,
		func(_ context.Context, n int) (int, error) { return n, nil })
	defer func() { _ = seq.Close() }()

	_, err := seq.Next()
	require.NoError(t, err)
	assert.LessOrEqual(t, src.pulls, 3, "prefetch must stay within the worker window")
}

func TestSelectParallel_CloseStopsWorkers(t *testing.T) {
	var started atomic.Int32
	seq := SelectParallel(context.Background(), Range(0, 100), 2,
		func(ctx context.Context, n int) (int, error) {
			started.Add(1)
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(time.Millisecond):
				return n, nil
			}
		})

	_, err := seq.Next()
	require.NoError(t, err)
	require.NoError(t, seq.Close())

	// No new work begins after Close returns
	after := started.Load()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, after, started.Load())
}

func TestForEachParallel_AppliesToAll(t *testing.T) {
	var total atomic.Int64
	err := ForEachParallel(context.Background(), Range(1, 100), 8,
		func(_ context.Context, n int) error {
			total.Add(int64(n))
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, int64(5050), total.Load())
}

func TestForEachParallel_CollectsAllFailures(t *testing.T) {
	err := ForEachParallel(context.Background(), Range(0, 6), 3,
		func(_ context.Context, n int) error {
			if n%2 == 1 {
				return errors.New("odd element rejected")
			}
			return nil
		})
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 3, "every failure is collected, not just the first")
}

func TestForEachParallel_CanceledContextStopsDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var applied atomic.Int32
	err := ForEachParallel(ctx, Range(0, 10), 2,
		func(_ context.Context, n int) error {
			applied.Add(1)
			return nil
		})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), applied.Load())
}
