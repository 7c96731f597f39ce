package sixcy

import (
	"runtime"
	"sync"

	"github.com/byte271/sixcy/codec"
)

// CompressChunksParallel compresses each of chunks independently using c
// at level, fanning work out across workers goroutines. If workers <= 1,
// it falls back to sequential compression in the calling goroutine. The
// result slice preserves input order regardless of completion order.
//
// Each chunk is compressed in isolation with no shared codec state, so
// this is safe for any Codec implementation in this package: none of
// them retain cross-call state that a concurrent call could corrupt.
func CompressChunksParallel(c codec.Codec, level int, chunks [][]byte, workers int) ([][]byte, error) {
	if workers <= 1 || len(chunks) <= 1 {
		out := make([][]byte, len(chunks))
		for i, chunk := range chunks {
			compressed, err := c.Compress(chunk, level)
			if err != nil {
				return nil, err
			}
			out[i] = compressed
		}
		return out, nil
	}

	if workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}

	type job struct {
		index int
		data  []byte
	}
	type result struct {
		index int
		data  []byte
		err   error
	}

	jobs := make(chan job, len(chunks))
	results := make(chan result, len(chunks))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				compressed, err := c.Compress(j.data, level)
				results <- result{index: j.index, data: compressed, err: err}
			}
		}()
	}

	for i, chunk := range chunks {
		jobs <- job{index: i, data: chunk}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([][]byte, len(chunks))
	var firstErr error
	for r := range results {
		if r.err != nil && firstErr == nil {
			firstErr = r.err
			continue
		}
		out[r.index] = r.data
	}

	if firstErr != nil {
		return nil, firstErr
	}

	return out, nil
}
