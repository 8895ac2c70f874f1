//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedDevtrailPath holds the path to a shared devtrail binary built once for all tests.
	sharedDevtrailPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getDevtrailBinary returns the path to the devtrail binary, building it once if needed.
func getDevtrailBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "devtrail-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		devtrailPath := filepath.Join(tempDir, "devtrail")
		buildCmd := exec.Command("go", "build", "-o", devtrailPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build devtrail: %v", err))
		}

		sharedDevtrailPath = devtrailPath
	})

	return sharedDevtrailPath
}

// runDevtrailCommand runs the devtrail binary from the project root with the given args.
func runDevtrailCommand(t *testing.T, args ...string) error {
	devtrailPath := getDevtrailBinary()
	cmd := exec.Command(devtrailPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
