package encryption

import (
	"sync"
)

const chunkSize = 1024

// bufferPool provides reusable chunk buffers for streaming reads.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		buf := make([]byte, chunkSize)

		return &buf
	},
}
