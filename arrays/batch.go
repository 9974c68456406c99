package arrays

// Batch splits source into consecutive slices of at most batchSize elements. A non-positive batch size yields a
// single batch.
func Batch[T any](source []T, batchSize int) [][]T {
	if batchSize <= 0 {
		batchSize = len(source)
	}

	var batches [][]T
	for batchSize < len(source) {
		source, batches = source[batchSize:], append(batches, source[0:batchSize:batchSize])
	}

	if len(source) > 0 {
		batches = append(batches, source)
	}

	return batches
}
