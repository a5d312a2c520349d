package annotation

import "slices"

// Batch splits items into contiguous batches of size, the last one holding the
// remainder. The batches share the backing array of items.
func Batch[T any](items []T, size int) ([][]T, error) {
	if size < 1 {
		return nil, ErrInvalidBatchSize
	}
	batches := make([][]T, 0, (len(items)+size-1)/size)
	for batch := range slices.Chunk(items, size) {
		batches = append(batches, batch)
	}
	return batches, nil
}
