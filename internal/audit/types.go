// Package audit writes the journal of a shelve run: an append-only JSON
// Lines file recording every planning decision and every move.
package audit

import "time"

// RunID is a unique identifier for each program execution.
type RunID string

// EventType represents the type of journal event.
type EventType string

const (
	// Run lifecycle events
	EventRunStart EventType = "RUN_START"
	EventRunEnd   EventType = "RUN_END"

	// Planning events
	EventPlanned  EventType = "PLANNED"
	EventExcluded EventType = "EXCLUDED"
	EventIgnored  EventType = "IGNORED"
	EventFailed   EventType = "FAILED"

	// Execution events
	EventMove             EventType = "MOVE"
	EventDuplicateRenamed EventType = "DUPLICATE_RENAMED"
	EventError            EventType = "ERROR"
	EventDirRemoved       EventType = "DIR_REMOVED"
)

// OperationStatus represents the outcome of an operation.
type OperationStatus string

const (
	StatusSuccess OperationStatus = "SUCCESS"
	StatusFailure OperationStatus = "FAILURE"
	StatusSkipped OperationStatus = "SKIPPED"
	StatusDryRun  OperationStatus = "DRY_RUN"
)

// ReasonCode explains why a file was skipped or failed. Planning reasons
// come from the planner verbatim.
type ReasonCode string

// ReasonDuplicateRenamed marks a move whose destination got a duplicate suffix.
const ReasonDuplicateRenamed ReasonCode = "DUPLICATE_RENAMED"

// RunStatus represents the status of a run.
type RunStatus string

const (
	RunStatusInProgress RunStatus = "IN_PROGRESS"
	RunStatusCompleted  RunStatus = "COMPLETED"
	RunStatusFailed     RunStatus = "FAILED"
)

// ErrorDetails contains detailed information about an error.
type ErrorDetails struct {
	ErrorType    string `json:"errorType"`
	ErrorMessage string `json:"errorMessage"`
	Operation    string `json:"operation"`
}

// AuditEvent represents a single journal record.
type AuditEvent struct {
	Timestamp       time.Time         `json:"timestamp"`
	RunID           RunID             `json:"runId"`
	EventType       EventType         `json:"eventType"`
	Status          OperationStatus   `json:"status"`
	SourcePath      string            `json:"sourcePath,omitempty"`
	DestinationPath string            `json:"destinationPath,omitempty"`
	ReasonCode      ReasonCode        `json:"reasonCode,omitempty"`
	ErrorDetails    *ErrorDetails     `json:"errorDetails,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// RunSummary contains statistics for a completed run.
type RunSummary struct {
	Scanned     int  `json:"scanned"`
	Planned     int  `json:"planned"`
	Moved       int  `json:"moved"`
	Duplicates  int  `json:"duplicates"`
	Excluded    int  `json:"excluded"`
	Ignored     int  `json:"ignored"`
	Failed      int  `json:"failed"`
	RemovedDirs int  `json:"removedDirs"`
	DryRun      bool `json:"dryRun"`
}

// RunInfo contains metadata and summary for a run.
type RunInfo struct {
	RunID     RunID             `json:"runId"`
	StartTime time.Time         `json:"startTime"`
	EndTime   *time.Time        `json:"endTime,omitempty"`
	Status    RunStatus         `json:"status"`
	Summary   RunSummary        `json:"summary"`
	Settings  map[string]string `json:"settings,omitempty"`
}
