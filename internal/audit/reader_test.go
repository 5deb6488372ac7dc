package audit

import (
	"strings"
	"testing"
	"time"
)

func TestReadEventsSkipsEmptyLines(t *testing.T) {
	input := strings.Join([]string{
		`{"timestamp":"2025-06-15T12:00:00Z","runId":"r1","eventType":"RUN_START","status":"SUCCESS"}`,
		``,
		`{"timestamp":"2025-06-15T12:00:01Z","runId":"r1","eventType":"MOVE","status":"SUCCESS","sourcePath":"/src/a","destinationPath":"/dest/a"}`,
		``,
	}, "\n")

	events, err := ReadEvents(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadEvents() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[1].DestinationPath != "/dest/a" {
		t.Errorf("unexpected event: %+v", events[1])
	}
}

func TestReadEventsReportsCorruptLine(t *testing.T) {
	input := `{"timestamp":"2025-06-15T12:00:00Z","runId":"r1","eventType":"RUN_START","status":"SUCCESS"}
{"timestamp":"2025-06-15T12:00:01Z","runId":"r1","eventTy`

	_, err := ReadEvents(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected error for truncated line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q does not name the line", err)
	}
}

func TestReadEventsEmptyInput(t *testing.T) {
	events, err := ReadEvents(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadEvents() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestRunsOrdersByStartAndMarksUnfinished(t *testing.T) {
	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	events := []AuditEvent{
		{Timestamp: base.Add(time.Hour), RunID: "late", EventType: EventRunStart},
		{Timestamp: base, RunID: "early", EventType: EventRunStart},
		{Timestamp: base.Add(time.Minute), RunID: "early", EventType: EventMove},
		{Timestamp: base.Add(2 * time.Minute), RunID: "early", EventType: EventRunEnd,
			Metadata: map[string]string{"status": "FAILED", "moved": "1", "failed": "2", "dryRun": "true"}},
		{Timestamp: base, RunID: "", EventType: EventRunStart},
	}

	runs := Runs(events)
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].RunID != "early" || runs[1].RunID != "late" {
		t.Errorf("unexpected order: %s, %s", runs[0].RunID, runs[1].RunID)
	}
	if runs[0].Status != RunStatusFailed || runs[0].EndTime == nil {
		t.Errorf("unexpected early run: %+v", runs[0])
	}
	if want := (RunSummary{Moved: 1, Failed: 2, DryRun: true}); runs[0].Summary != want {
		t.Errorf("summary = %+v, want %+v", runs[0].Summary, want)
	}
	if runs[1].Status != RunStatusInProgress || runs[1].EndTime != nil {
		t.Errorf("unfinished run must be IN_PROGRESS: %+v", runs[1])
	}
}

func TestFilterByRun(t *testing.T) {
	events := []AuditEvent{
		{RunID: "a", EventType: EventRunStart},
		{RunID: "b", EventType: EventRunStart},
		{RunID: "a", EventType: EventMove},
	}

	got := FilterByRun(events, "a")
	if len(got) != 2 || got[1].EventType != EventMove {
		t.Errorf("FilterByRun() = %+v", got)
	}
	if len(FilterByRun(events, "missing")) != 0 {
		t.Error("expected no events for unknown run")
	}
}
