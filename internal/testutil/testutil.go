// Package testutil holds deterministic stand-ins shared by package tests.
package testutil

import (
	"fmt"
	"time"

	"shelve/internal/filedate"
)

// StubClock returns a fixed time.
type StubClock struct {
	now time.Time
}

// NewStubClock creates a StubClock set to the given time.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock set to 2025-06-15 12:00:00 UTC.
func FixedClock() *StubClock {
	return NewStubClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
}

func (c *StubClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// StubIDGenerator returns sequential IDs: "id-1", "id-2", etc.
type StubIDGenerator struct {
	counter int
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.counter++
	return fmt.Sprintf("id-%d", g.counter)
}

// MapSource serves file timestamps from a map. Paths without an entry fail
// like an unreadable file would.
type MapSource map[string]filedate.Times

func (m MapSource) Times(path string) (filedate.Times, error) {
	times, ok := m[path]
	if !ok {
		return filedate.Times{}, fmt.Errorf("failed to get metadata for %s: no such file", path)
	}
	return times, nil
}

// ModifiedAt returns Times with all three timestamps set to ts.
func ModifiedAt(ts time.Time) filedate.Times {
	return filedate.Times{Created: ts, Modified: ts, Accessed: ts}
}
