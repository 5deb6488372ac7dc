// Package filedate resolves the effective date of a file from its raw timestamps.
package filedate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind selects one of the raw file timestamps.
type Kind string

const (
	Created  Kind = "created"
	Modified Kind = "modified"
	Accessed Kind = "accessed"
)

// DefaultKinds are used when no kinds are configured.
var DefaultKinds = []Kind{Created, Modified}

var (
	// ErrNoKinds is returned when no timestamp kind was requested.
	ErrNoKinds = errors.New("at least one file date type must be provided")
	// ErrTimestampUnavailable is returned when a requested timestamp is not
	// reported by the filesystem (e.g. no birth time).
	ErrTimestampUnavailable = errors.New("timestamp not available")
)

// Times holds the raw timestamps of a file. A zero value means the
// filesystem does not report that timestamp.
type Times struct {
	Created  time.Time
	Modified time.Time
	Accessed time.Time
}

func (t Times) get(k Kind) time.Time {
	switch k {
	case Created:
		return t.Created
	case Modified:
		return t.Modified
	case Accessed:
		return t.Accessed
	default:
		panic(fmt.Sprintf("filedate: unknown kind %q", string(k)))
	}
}

// Resolve returns the most recent of the requested timestamps, in UTC.
func Resolve(raw Times, kinds []Kind) (time.Time, error) {
	if len(kinds) == 0 {
		return time.Time{}, ErrNoKinds
	}

	var latest time.Time
	for _, k := range kinds {
		ts := raw.get(k)
		if ts.IsZero() {
			return time.Time{}, fmt.Errorf("%s time: %w", k, ErrTimestampUnavailable)
		}
		if ts.After(latest) {
			latest = ts
		}
	}
	return latest.UTC(), nil
}

// ParseKind parses a kind name or its one-letter short form.
func ParseKind(value string) (Kind, error) {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "c", "created":
		return Created, nil
	case "m", "modified":
		return Modified, nil
	case "a", "accessed":
		return Accessed, nil
	default:
		return "", fmt.Errorf("unsupported file date type: %s. Please use one of the following: %s",
			trimmed, strings.Join([]string{"created (c)", "modified (m)", "accessed (a)"}, ", "))
	}
}

// ParseKinds parses a list of kinds. Each value may itself be a
// comma-separated list. Duplicates are dropped, order is kept.
func ParseKinds(values []string) ([]Kind, error) {
	var kinds []Kind
	seen := make(map[Kind]bool)
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			k, err := ParseKind(part)
			if err != nil {
				return nil, err
			}
			if !seen[k] {
				seen[k] = true
				kinds = append(kinds, k)
			}
		}
	}
	if len(kinds) == 0 {
		return nil, ErrNoKinds
	}
	return kinds, nil
}
