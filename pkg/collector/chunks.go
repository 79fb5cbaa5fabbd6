package collector

// chunkBounds delimits one half-open [start, end) slice of the item list.
type chunkBounds struct {
	start int // inclusive
	end   int // exclusive
}

// buildChunks splits [start, end) into consecutive bounds of at most size
// items each. The final chunk absorbs the remainder.
func buildChunks(start, end, size int) []chunkBounds {
	if start >= end || size <= 0 {
		return nil
	}

	chunks := make([]chunkBounds, 0, (end-start+size-1)/size)
	for lo := start; lo < end; lo += size {
		chunks = append(chunks, chunkBounds{start: lo, end: min(lo+size, end)})
	}
	return chunks
}
