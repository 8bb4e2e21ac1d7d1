// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"golang.org/x/term"

	"github.com/odakan/EzGM/internal/contract"
	"github.com/odakan/EzGM/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSelection prints selection run results using the configured output format.
func (ow *OutWriter) WriteSelection(result *schema.RunResult, cfg *contract.Config) error {
	return WriteSelectionResults(result, cfg)
}

// WriteTarget prints a target spectrum using the configured output format.
func (ow *OutWriter) WriteTarget(target *schema.Target, cfg *contract.Config) error {
	return WriteTargetSpectrum(target, cfg)
}

// WriteCatalog prints catalog records using the configured output format.
func (ow *OutWriter) WriteCatalog(records []schema.Record, grid *schema.PeriodGrid, cfg *contract.Config, duration time.Duration) error {
	return WriteCatalogRecords(records, grid, cfg, duration)
}

// GetMaxTableEventWidth calculates the maximum width for event identifiers in
// table output based on terminal width and table configuration.
func GetMaxTableEventWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for fixed columns with table formatting
	baseWidth := 30 // Rank + Record + Scale + Label with borders/padding

	// Add detail columns with formatting
	if cfg.Detail {
		baseWidth += 20 // Match error column with formatting
	}

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 15

	// Calculate available space for the event identifier
	available := termWidth - baseWidth
	if available < 12 {
		// Minimum reasonable event width
		return 12
	}
	if available > 40 {
		// Maximum event width to prevent overly long identifiers
		return 40
	}
	return available
}
