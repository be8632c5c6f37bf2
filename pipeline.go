package osmpbf

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BlockProcessor is invoked once per decoded data block. It must be safe
// to call concurrently from multiple workers; ParseWorkerPool and
// ParseForkJoin both do so. Its return value is never inspected — to stop
// early a caller-maintained cancellation flag, checked on entry, is the
// cooperative mechanism described for this pipeline.
type BlockProcessor func(dec *PrimitiveBlockDecoder)

// ParseSequential reads and decodes one block at a time, invoking f after
// each decode, until EOF or an error.
func ParseSequential(in *OSMFileIn, f BlockProcessor) error {
	for {
		dec, err := in.ParseNextBlock()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		f(dec)
	}
}

// ParseForkJoin buffers up to n raw blocks, decodes and processes them
// concurrently, then repeats, until a batch comes back short of n
// (meaning EOF was hit while filling it).
func ParseForkJoin(ctx context.Context, in *OSMFileIn, n int, f BlockProcessor) error {
	for {
		blocks, ok, err := in.GetNextBlocks(n)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		g, _ := errgroup.WithContext(ctx)
		for _, dec := range blocks {
			dec := dec
			g.Go(func() error {
				f(dec)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if len(blocks) < n {
			return nil
		}
	}
}

// ParseWorkerPool spawns t workers (t<=0 defaults to runtime.NumCPU()),
// each repeatedly acquiring a shared mutex, fetching up to r raw blocks,
// releasing the mutex, then decoding and processing them independently.
// Workers exit once a fetch returns no blocks. This is the pipeline's
// fetch-granularity (not byte-granularity) locking strategy: one mutex
// acquisition buys each worker a batch, not a single block.
func ParseWorkerPool(ctx context.Context, in *OSMFileIn, t, r int, f BlockProcessor) error {
	if t <= 0 {
		t = runtime.NumCPU()
	}
	if r <= 0 {
		r = 1
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < t; i++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				mu.Lock()
				blocks, ok, err := in.GetNextBlocks(r)
				mu.Unlock()
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				for _, dec := range blocks {
					f(dec)
				}
			}
		})
	}

	return g.Wait()
}
