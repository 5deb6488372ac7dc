package audit

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"shelve/internal/clock"
)

// ErrNoActiveRun is returned when an event is recorded outside a run.
var ErrNoActiveRun = errors.New("no active run: call StartRun first")

// AuditWriter appends journal events to a file. Every event is flushed and
// synced before the call returns; a failed write is reported immediately.
type AuditWriter struct {
	file       afero.File
	writer     *bufio.Writer
	currentRun *RunID
	clock      clock.Clock
	ids        clock.IDGenerator
}

// NewAuditWriter opens (or creates) the journal at logPath for appending,
// creating its directory if needed.
func NewAuditWriter(fs afero.Fs, logPath string, clk clock.Clock, ids clock.IDGenerator) (*AuditWriter, error) {
	if err := fs.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	file, err := fs.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	return &AuditWriter{
		file:   file,
		writer: bufio.NewWriter(file),
		clock:  clk,
		ids:    ids,
	}, nil
}

// StartRun generates a run ID and writes the RUN_START event carrying the
// resolved settings.
func (w *AuditWriter) StartRun(settings map[string]string) (RunID, error) {
	runID := RunID(w.ids.New())

	event := AuditEvent{
		Timestamp: w.clock.Now(),
		RunID:     runID,
		EventType: EventRunStart,
		Status:    StatusSuccess,
		Metadata:  settings,
	}
	if err := w.writeEvent(event); err != nil {
		return "", fmt.Errorf("failed to write RUN_START event: %w", err)
	}

	w.currentRun = &runID
	return runID, nil
}

// EndRun records the run completion status and summary.
func (w *AuditWriter) EndRun(status RunStatus, summary RunSummary) error {
	if w.currentRun == nil {
		return ErrNoActiveRun
	}

	opStatus := StatusSuccess
	if status != RunStatusCompleted {
		opStatus = StatusFailure
	}

	metadata := summaryMetadata(summary)
	metadata["status"] = string(status)

	event := AuditEvent{
		Timestamp: w.clock.Now(),
		RunID:     *w.currentRun,
		EventType: EventRunEnd,
		Status:    opStatus,
		Metadata:  metadata,
	}
	if err := w.writeEvent(event); err != nil {
		return fmt.Errorf("failed to write RUN_END event: %w", err)
	}

	w.currentRun = nil
	return nil
}

// RecordPlanned records a file accepted into the move plan with its
// effective date.
func (w *AuditWriter) RecordPlanned(source, dest string, date time.Time) error {
	return w.record(AuditEvent{
		EventType:       EventPlanned,
		Status:          StatusSuccess,
		SourcePath:      source,
		DestinationPath: dest,
		Metadata:        map[string]string{"effectiveDate": date.UTC().Format(TimestampFormat)},
	})
}

// RecordSkip records a file left in place. eventType is EventExcluded or
// EventIgnored.
func (w *AuditWriter) RecordSkip(eventType EventType, source string, reason ReasonCode) error {
	return w.record(AuditEvent{
		EventType:  eventType,
		Status:     StatusSkipped,
		SourcePath: source,
		ReasonCode: reason,
	})
}

// RecordFailure records a per-file planning failure.
func (w *AuditWriter) RecordFailure(source string, reason ReasonCode, err error) error {
	return w.record(AuditEvent{
		EventType:    EventFailed,
		Status:       StatusFailure,
		SourcePath:   source,
		ReasonCode:   reason,
		ErrorDetails: errorDetails(err, "plan"),
	})
}

// RecordMove records a move. In dry-run mode the status is DRY_RUN.
func (w *AuditWriter) RecordMove(source, dest string, dryRun bool) error {
	status := StatusSuccess
	if dryRun {
		status = StatusDryRun
	}
	return w.record(AuditEvent{
		EventType:       EventMove,
		Status:          status,
		SourcePath:      source,
		DestinationPath: dest,
	})
}

// RecordDuplicate records that a destination was taken and the file was
// moved under a duplicate name instead.
func (w *AuditWriter) RecordDuplicate(source, intendedDest, actualDest string) error {
	return w.record(AuditEvent{
		EventType:       EventDuplicateRenamed,
		Status:          StatusSuccess,
		SourcePath:      source,
		DestinationPath: actualDest,
		ReasonCode:      ReasonDuplicateRenamed,
		Metadata:        map[string]string{"intendedDestination": intendedDest},
	})
}

// RecordError records a failed move or cleanup operation.
func (w *AuditWriter) RecordError(source string, err error, operation string) error {
	return w.record(AuditEvent{
		EventType:    EventError,
		Status:       StatusFailure,
		SourcePath:   source,
		ErrorDetails: errorDetails(err, operation),
	})
}

// RecordDirRemoved records the deletion of an empty directory.
func (w *AuditWriter) RecordDirRemoved(path string) error {
	return w.record(AuditEvent{
		EventType:  EventDirRemoved,
		Status:     StatusSuccess,
		SourcePath: path,
	})
}

// Close flushes any buffered data and closes the journal file.
func (w *AuditWriter) Close() error {
	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush on close: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close journal: %w", err)
	}
	return nil
}

// CurrentRunID returns the current run ID, or nil if no run is active.
func (w *AuditWriter) CurrentRunID() *RunID {
	return w.currentRun
}

// record stamps event with the active run and the current time.
func (w *AuditWriter) record(event AuditEvent) error {
	if w.currentRun == nil {
		return ErrNoActiveRun
	}
	event.RunID = *w.currentRun
	event.Timestamp = w.clock.Now()
	return w.writeEvent(event)
}

// writeEvent marshals event as one JSON line, then flushes and syncs.
func (w *AuditWriter) writeEvent(event AuditEvent) error {
	data, err := event.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := w.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync event to disk: %w", err)
	}
	return nil
}

func errorDetails(err error, operation string) *ErrorDetails {
	if err == nil {
		return nil
	}
	return &ErrorDetails{
		ErrorType:    fmt.Sprintf("%T", err),
		ErrorMessage: err.Error(),
		Operation:    operation,
	}
}

func summaryMetadata(s RunSummary) map[string]string {
	return map[string]string{
		"scanned":     strconv.Itoa(s.Scanned),
		"planned":     strconv.Itoa(s.Planned),
		"moved":       strconv.Itoa(s.Moved),
		"duplicates":  strconv.Itoa(s.Duplicates),
		"excluded":    strconv.Itoa(s.Excluded),
		"ignored":     strconv.Itoa(s.Ignored),
		"failed":      strconv.Itoa(s.Failed),
		"removedDirs": strconv.Itoa(s.RemovedDirs),
		"dryRun":      strconv.FormatBool(s.DryRun),
	}
}
