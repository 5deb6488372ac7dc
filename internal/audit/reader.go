package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/afero"
)

// maxLineSize bounds a single journal line.
const maxLineSize = 1024 * 1024

// ReadEvents decodes a JSON Lines journal. Empty lines are skipped; any
// other undecodable line is an error naming its line number.
func ReadEvents(r io.Reader) ([]AuditEvent, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	events := []AuditEvent{}
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event AuditEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("failed to parse line %d: %w", lineNum, err)
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading journal: %w", err)
	}
	return events, nil
}

// ReadJournal reads all events of the journal at path.
func ReadJournal(fs afero.Fs, path string) ([]AuditEvent, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer file.Close()
	return ReadEvents(file)
}

// Runs groups events by run and returns one RunInfo per run, oldest first.
// A run without RUN_END is reported as IN_PROGRESS.
func Runs(events []AuditEvent) []RunInfo {
	byRun := make(map[RunID]*RunInfo)
	var order []RunID
	for _, event := range events {
		if event.RunID == "" {
			continue
		}
		info, ok := byRun[event.RunID]
		if !ok {
			info = &RunInfo{RunID: event.RunID, Status: RunStatusInProgress}
			byRun[event.RunID] = info
			order = append(order, event.RunID)
		}

		switch event.EventType {
		case EventRunStart:
			info.StartTime = event.Timestamp
			info.Settings = event.Metadata
		case EventRunEnd:
			end := event.Timestamp
			info.EndTime = &end
			if status, ok := event.Metadata["status"]; ok {
				info.Status = RunStatus(status)
			}
			info.Summary = parseSummary(event.Metadata)
		}
	}

	runs := make([]RunInfo, 0, len(order))
	for _, id := range order {
		runs = append(runs, *byRun[id])
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartTime.Before(runs[j].StartTime)
	})
	return runs
}

// FilterByRun returns the events of a single run, in journal order.
func FilterByRun(events []AuditEvent, runID RunID) []AuditEvent {
	out := []AuditEvent{}
	for _, event := range events {
		if event.RunID == runID {
			out = append(out, event)
		}
	}
	return out
}

func parseSummary(metadata map[string]string) RunSummary {
	atoi := func(key string) int {
		n, _ := strconv.Atoi(metadata[key])
		return n
	}
	dryRun, _ := strconv.ParseBool(metadata["dryRun"])
	return RunSummary{
		Scanned:     atoi("scanned"),
		Planned:     atoi("planned"),
		Moved:       atoi("moved"),
		Duplicates:  atoi("duplicates"),
		Excluded:    atoi("excluded"),
		Ignored:     atoi("ignored"),
		Failed:      atoi("failed"),
		RemovedDirs: atoi("removedDirs"),
		DryRun:      dryRun,
	}
}
