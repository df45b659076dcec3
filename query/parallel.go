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
	"io"
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// parallelOut carries one worker's result back to the consumer.
type parallelOut[R any] struct {
	val R
	err error
}

// parallelSequence fans upstream elements out to a bounded worker pool and
// delivers results in upstream order. Ordering comes from a FIFO window of
// per-job result channels: jobs are dispatched in pull order and the
// consumer always waits on the oldest outstanding job.
type parallelSequence[T, R any] struct {
	claimGuard
	ctx     context.Context
	src     Sequence[T]
	fn      func(context.Context, T) (R, error)
	workers int

	group   *errgroup.Group
	gctx    context.Context
	cancel  context.CancelFunc
	window  []chan parallelOut[R]
	started bool
	srcDone bool
	pullErr error
	err     error
	closed  bool
}

// SelectParallel returns a sequence that applies fn to the elements of src
// on a pool of workers goroutines while preserving upstream order. Up to
// workers elements are in flight at once, so the upstream is pulled ahead
// of consumption by at most that much. The first failure cancels ctx for
// the remaining workers and surfaces from Next; results ordered before the
// failing element are still delivered first. A workers value below one
// means one worker per available CPU.
func SelectParallel[T, R any](ctx context.Context, src Sequence[T], workers int, fn func(context.Context, T) (R, error)) Sequence[R] {
	if fn == nil {
		panic("query: SelectParallel requires a selector")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &parallelSequence[T, R]{
		ctx:     ctx,
		src:     attach(src),
		fn:      fn,
		workers: workers,
	}
}

func (s *parallelSequence[T, R]) Next() (R, error) {
	var zero R
	if s.closed {
		return zero, io.EOF
	}
	if s.err != nil {
		return zero, s.err
	}
	if !s.started {
		s.started = true
		ctx, cancel := context.WithCancel(s.ctx)
		s.cancel = cancel
		s.group, s.gctx = errgroup.WithContext(ctx)
		s.group.SetLimit(s.workers)
	}

	// Keep the window full
	for !s.srcDone && len(s.window) < s.workers {
		item, err := s.src.Next()
		if err != nil {
			s.srcDone = true
			if !errors.Is(err, io.EOF) {
				s.pullErr = err
			}
			break
		}
		out := make(chan parallelOut[R], 1)
		s.window = append(s.window, out)
		s.group.Go(func() error {
			result, err := s.fn(s.gctx, item)
			out <- parallelOut[R]{val: result, err: err}
			return err
		})
	}

	if len(s.window) == 0 {
		if err := s.group.Wait(); err != nil {
			s.err = err
			return zero, s.err
		}
		if s.pullErr != nil {
			s.err = s.pullErr
			return zero, s.err
		}
		return zero, io.EOF
	}

	head := s.window[0]
	s.window = s.window[1:]
	res := <-head
	if res.err != nil {
		// The group's first error is the root cause; a job canceled by an
		// earlier failure must not mask it.
		if err := s.group.Wait(); err != nil {
			s.err = err
		} else {
			s.err = res.err
		}
		parallelFailuresCounter.Add(context.Background(), 1)
		return zero, s.err
	}
	return res.val, nil
}

func (s *parallelSequence[T, R]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	if s.group != nil {
		_ = s.group.Wait()
	}
	s.window = nil
	return s.src.Close()
}

// ForEachParallel applies fn to every element of src on a pool of workers
// goroutines, with no ordering guarantee. Unlike SelectParallel it does
// not stop at the first failure: every element is attempted, and all
// failures are collected into the returned error. Cancelling ctx stops
// dispatching; elements already dispatched still run to completion.
func ForEachParallel[T any](ctx context.Context, src Sequence[T], workers int, fn func(context.Context, T) error) error {
	if fn == nil {
		panic("query: ForEachParallel requires a function")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	seq := attach(src)
	defer drainClose(seq)

	var mu sync.Mutex
	var errs *multierror.Error
	collect := func(err error) {
		mu.Lock()
		errs = multierror.Append(errs, err)
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for {
		select {
		case <-ctx.Done():
			collect(ctx.Err())
			_ = g.Wait()
			return errs.ErrorOrNil()
		default:
		}

		item, err := seq.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				collect(err)
			}
			break
		}
		g.Go(func() error {
			if err := fn(ctx, item); err != nil {
				collect(err)
				parallelFailuresCounter.Add(context.Background(), 1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errs.ErrorOrNil()
}
