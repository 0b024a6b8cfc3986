package common

// SplitStringIntoChunks splits s into consecutive chunks of at most size
// bytes. A non-positive size yields the whole string as a single chunk.
func SplitStringIntoChunks(s string, size int) []string {
	if len(s) == 0 {
		return []string{}
	}
	if size <= 0 || size >= len(s) {
		return []string{s}
	}

	chunks := make([]string, 0, (len(s)+size-1)/size)
	for start := 0; start < len(s); start += size {
		end := start + size
		if end > len(s) {
			end = len(s)
		}
		chunks = append(chunks, s[start:end])
	}
	return chunks
}
