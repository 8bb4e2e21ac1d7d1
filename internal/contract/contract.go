package contract

import (
	"time"

	"github.com/odakan/EzGM/schema"
)

// RunStore persists selection runs and the records chosen in them.
// Implementations must be safe for concurrent use.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID.
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data.
	EndRun(runID int64, endTime time.Time, totalSelected int) error

	// RecordEntry stores one selected record within a stripe of a run.
	RecordEntry(runID int64, stripeLevel float64, rank int, entry schema.SelectedEntry, selectedAt time.Time) error

	// GetStatus returns status information about the store.
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns retrieves all runs from the store.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllEntries retrieves all selected-record rows from the store.
	GetAllEntries() ([]schema.RunEntryRecord, error)

	// Close closes the underlying connection.
	Close() error
}
