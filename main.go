// main is the entry point for the devtrail CLI.
package main

import (
	"fmt"
	"os"

	"github.com/devtrail/devtrail/cmd"
	"github.com/devtrail/devtrail/internal/iocache"
)

func main() {
	err := cmd.Execute()
	iocache.CloseCaching()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
