// FileMaster - dual-pane file manager and batch operation toolkit.
package main

import (
	"fmt"
	"os"

	"github.com/westy/filemaster/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
