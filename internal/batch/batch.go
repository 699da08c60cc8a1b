// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch sends large collections to the model in bounded chunks.
// The model cannot reliably return a correct structured answer for an
// unbounded number of items, so callers split their input and issue one
// call per chunk, in order, waiting for each before starting the next.
package batch

import (
	"context"
	"fmt"
)

// Chunk partitions items into contiguous slices of at most size elements.
// The last chunk may be smaller. A size <= 0 yields a single chunk. The
// returned chunks alias items and must not be modified.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size >= len(items) {
		return [][]T{items[:len(items):len(items)]}
	}

	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}

// Func processes one chunk. index is the zero-based chunk position.
type Func[T, R any] func(ctx context.Context, index int, chunk []T) ([]R, error)

// Run calls fn once per chunk of items, sequentially, and returns the
// concatenated results in chunk order. The first error aborts the
// remaining chunks and no partial output is returned.
func Run[T, R any](ctx context.Context, items []T, size int, fn Func[T, R]) ([]R, error) {
	chunks := Chunk(items, size)

	var out []R
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		results, err := fn(ctx, i, chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
		}
		out = append(out, results...)
	}
	return out, nil
}
