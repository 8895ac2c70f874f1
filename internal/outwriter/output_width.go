package outwriter

import (
	"os"

	"github.com/devtrail/devtrail/internal/contract"
	"golang.org/x/term"
)

// getMaxDescriptionWidth calculates the maximum width for bucket descriptions
// in table output based on terminal width and table configuration.
func getMaxDescriptionWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the date range, commit count and technology columns
	// plus table borders, separators, and padding.
	baseWidth := 60

	available := termWidth - baseWidth
	if available < 20 {
		// Minimum reasonable description width
		return 20
	}
	if available > 100 {
		// Maximum description width to keep rows scannable
		return 100
	}
	return available
}
