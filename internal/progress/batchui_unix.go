//go:build !windows

package progress

import "os"

// enableANSI is a no-op on platforms where terminals speak ANSI natively.
func enableANSI(f *os.File) {}
