package buffers

import (
	"testing"

	"github.com/westy/filemaster/internal/constants"
)

func TestCopyBufferSize(t *testing.T) {
	buf := GetCopyBuffer()
	defer PutCopyBuffer(buf)

	if len(*buf) != constants.CopyChunkSize {
		t.Errorf("Copy buffer size = %d, want %d", len(*buf), constants.CopyChunkSize)
	}
}

func TestChecksumBufferSize(t *testing.T) {
	buf := GetChecksumBuffer()
	defer PutChecksumBuffer(buf)

	if len(*buf) != constants.ChecksumChunkSize {
		t.Errorf("Checksum buffer size = %d, want %d", len(*buf), constants.ChecksumChunkSize)
	}
}

func TestPutWrongSizeDropped(t *testing.T) {
	small := make([]byte, 16)
	// Must not panic, and must not poison the pool
	PutCopyBuffer(&small)

	buf := GetCopyBuffer()
	defer PutCopyBuffer(buf)
	if len(*buf) != constants.CopyChunkSize {
		t.Errorf("Pool returned wrong-sized buffer: %d", len(*buf))
	}
}

func TestPutNil(t *testing.T) {
	// Must not panic
	PutCopyBuffer(nil)
	PutChecksumBuffer(nil)
}
