package audit

import (
	"encoding/json"
	"time"
)

// TimestampFormat is the time format used for journal timestamps.
const TimestampFormat = time.RFC3339

// eventJSON is the wire form of AuditEvent. The timestamp is kept as a
// string so it always carries the same precision and zone.
type eventJSON struct {
	Timestamp       string            `json:"timestamp"`
	RunID           RunID             `json:"runId"`
	EventType       EventType         `json:"eventType"`
	Status          OperationStatus   `json:"status"`
	SourcePath      string            `json:"sourcePath,omitempty"`
	DestinationPath string            `json:"destinationPath,omitempty"`
	ReasonCode      ReasonCode        `json:"reasonCode,omitempty"`
	ErrorDetails    *ErrorDetails     `json:"errorDetails,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// MarshalJSON implements json.Marshaler for AuditEvent.
func (e AuditEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{
		Timestamp:       e.Timestamp.UTC().Format(TimestampFormat),
		RunID:           e.RunID,
		EventType:       e.EventType,
		Status:          e.Status,
		SourcePath:      e.SourcePath,
		DestinationPath: e.DestinationPath,
		ReasonCode:      e.ReasonCode,
		ErrorDetails:    e.ErrorDetails,
		Metadata:        e.Metadata,
	})
}

// UnmarshalJSON implements json.Unmarshaler for AuditEvent.
func (e *AuditEvent) UnmarshalJSON(data []byte) error {
	var ej eventJSON
	if err := json.Unmarshal(data, &ej); err != nil {
		return err
	}

	t, err := time.Parse(TimestampFormat, ej.Timestamp)
	if err != nil {
		return err
	}

	*e = AuditEvent{
		Timestamp:       t,
		RunID:           ej.RunID,
		EventType:       ej.EventType,
		Status:          ej.Status,
		SourcePath:      ej.SourcePath,
		DestinationPath: ej.DestinationPath,
		ReasonCode:      ej.ReasonCode,
		ErrorDetails:    ej.ErrorDetails,
		Metadata:        ej.Metadata,
	}
	return nil
}
