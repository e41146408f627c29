// Package buffers provides reusable byte buffers for the copy and checksum
// loops, keeping GC pressure down during large batch operations.
package buffers

import (
	"sync"

	"github.com/westy/filemaster/internal/constants"
)

var (
	// copyPool provides CopyChunkSize buffers for the chunked copy loop.
	copyPool = &sync.Pool{
		New: func() interface{} {
			buf := make([]byte, constants.CopyChunkSize)
			return &buf
		},
	}

	// checksumPool provides ChecksumChunkSize buffers for hashing.
	checksumPool = &sync.Pool{
		New: func() interface{} {
			buf := make([]byte, constants.ChecksumChunkSize)
			return &buf
		},
	}
)

// GetCopyBuffer retrieves a copy-sized buffer from the pool.
//
// Usage:
//
//	buf := buffers.GetCopyBuffer()
//	defer buffers.PutCopyBuffer(buf)
//	n, err := src.Read(*buf)
func GetCopyBuffer() *[]byte {
	return copyPool.Get().(*[]byte)
}

// PutCopyBuffer returns a buffer to the pool. The buffer must not be used
// afterwards. Wrong-sized buffers are dropped rather than pooled.
func PutCopyBuffer(buf *[]byte) {
	if buf != nil && len(*buf) == constants.CopyChunkSize {
		copyPool.Put(buf)
	}
}

// GetChecksumBuffer retrieves a checksum-sized buffer from the pool.
func GetChecksumBuffer() *[]byte {
	return checksumPool.Get().(*[]byte)
}

// PutChecksumBuffer returns a checksum buffer to the pool.
func PutChecksumBuffer(buf *[]byte) {
	if buf != nil && len(*buf) == constants.ChecksumChunkSize {
		checksumPool.Put(buf)
	}
}
