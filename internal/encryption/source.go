package encryption

import (
	"bytes"
	"fmt"
	"io"
)

// PlaintextSource is the input side of an encryption.
//
// StreamingSource reads lazily in chunks and keeps memory bounded.
// BufferedSource holds the entire plaintext, for input whose end is only known
// once the user stops typing.
type PlaintextSource interface {
	io.Reader
	// Buffered reports whether the whole plaintext is already in memory.
	Buffered() bool
}

// StreamingSource wraps a reader such as an open file.
type StreamingSource struct {
	r io.Reader
}

// NewStreamingSource returns a source reading from r on demand.
func NewStreamingSource(r io.Reader) *StreamingSource {
	return &StreamingSource{r: r}
}

func (s *StreamingSource) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

// Buffered returns false.
func (s *StreamingSource) Buffered() bool {
	return false
}

// BufferedSource is a fully materialized plaintext.
type BufferedSource struct {
	*bytes.Reader
}

// NewBufferedSource reads r until end of input before returning.
func NewBufferedSource(r io.Reader) (*BufferedSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading console input: %w", err)
	}

	return BytesSource(data), nil
}

// BytesSource wraps plaintext that is already in memory.
func BytesSource(data []byte) *BufferedSource {
	return &BufferedSource{Reader: bytes.NewReader(data)}
}

// Buffered returns true.
func (s *BufferedSource) Buffered() bool {
	return true
}
