package iocache

import (
	"fmt"

	"github.com/devtrail/devtrail/schema"
)

// PrintCacheStatus prints stage-cache status information.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Cache Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Entries: %d\n", status.Entries)
	if status.SizeBytes > 0 {
		fmt.Printf("Size: %d bytes\n", status.SizeBytes)
	}
	if status.Location != "" {
		fmt.Printf("Location: %s\n", status.Location)
	}
}

// PrintRunStatus prints run-history status information.
func PrintRunStatus(status schema.CacheStatus) {
	fmt.Printf("Run Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.Entries)
	if status.Location != "" {
		fmt.Printf("Location: %s\n", status.Location)
	}
}
