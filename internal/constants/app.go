package constants

import (
	"time"
)

// File operation sizes
const (
	// CopyChunkSize - size of each read/write chunk during local copies (64 KiB).
	// Small enough for responsive progress and cancellation checks, large
	// enough to keep syscall overhead low on set-top-box class hardware.
	CopyChunkSize = 64 * 1024

	// ChecksumChunkSize - read size for checksum computation (8 KiB)
	ChecksumChunkSize = 8 * 1024

	// RemoteChunkSize - part size for S3 multipart / Azure block transfers (16 MiB)
	RemoteChunkSize = 16 * 1024 * 1024

	// LargeFileThreshold - files at or above this size get a byte-level
	// progress bar instead of a per-item tick (64 MiB)
	LargeFileThreshold = 64 * 1024 * 1024
)

// Secure delete
const (
	// DefaultSecurePasses - default number of random-overwrite passes
	DefaultSecurePasses = 3

	// MaxSecurePasses - upper bound accepted from flags and config
	MaxSecurePasses = 35
)

// Cache defaults
const (
	// FileInfoCacheSize - maximum cached file-info entries
	FileInfoCacheSize = 1000

	// FileInfoCacheTTL - how long a cached stat result stays valid
	FileInfoCacheTTL = 5 * time.Minute

	// IconCacheSize - maximum cached icon/preview entries
	IconCacheSize = 50
)

// Transfer runner
const (
	// DefaultTransferWorkers - concurrent transfer goroutines
	DefaultTransferWorkers = 2

	// MaxTransferWorkers - upper bound accepted from flags and config
	MaxTransferWorkers = 8
)

// Event bus
const (
	// EventBusDefaultBuffer - default per-subscriber channel buffer
	EventBusDefaultBuffer = 1000

	// EventBusMaxBuffer - cap on per-subscriber channel buffer
	EventBusMaxBuffer = 10000
)

// Remote retry configuration
const (
	// MaxRetries - maximum retries for transient remote errors
	MaxRetries = 4

	// RetryInitialDelay - initial delay before first retry
	RetryInitialDelay = 200 * time.Millisecond

	// RetryMaxDelay - cap for exponential backoff between retries
	RetryMaxDelay = 15 * time.Second
)

// DiskSpaceSafetyMargin - multiplier applied to required bytes before a copy
// is allowed to proceed (10% headroom).
const DiskSpaceSafetyMargin = 1.1
