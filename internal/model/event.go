package model

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp is a point in time in whole epoch seconds.
type Timestamp int64

// TimestampOf truncates t to epoch seconds.
func TimestampOf(t time.Time) Timestamp { return Timestamp(t.Unix()) }

// Time converts back to a time.Time in the local zone.
func (t Timestamp) Time() time.Time { return time.Unix(int64(t), 0) }

// Until returns other - t in seconds.
func (t Timestamp) Until(other Timestamp) int64 { return int64(other - t) }

// Add returns t shifted by secs seconds.
func (t Timestamp) Add(secs int64) Timestamp { return t + Timestamp(secs) }

// UploadStatus tracks whether an event has been handed to the sync side.
type UploadStatus int

const (
	StatusNew UploadStatus = iota
	StatusUploaded
	// StatusDummy marks synthetic in-memory events. Never persisted.
	StatusDummy
)

func (s UploadStatus) String() string {
	switch s {
	case StatusNew:
		return "NEW"
	case StatusUploaded:
		return "UPLOADED"
	case StatusDummy:
		return "DUMMY"
	}
	return fmt.Sprintf("UploadStatus(%d)", int(s))
}

// ParseUploadStatus parses NEW, UPLOADED or DUMMY.
func ParseUploadStatus(s string) (UploadStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NEW":
		return StatusNew, nil
	case "UPLOADED":
		return StatusUploaded, nil
	case "DUMMY":
		return StatusDummy, nil
	}
	return StatusNew, fmt.Errorf("%w: unknown upload status %q", ErrInvalidArgument, s)
}

// MarshalText encodes the status by name.
func (s UploadStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *UploadStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseUploadStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Event records that the detected activity changed to Kind at OccurredAt.
type Event struct {
	ID         int64        `json:"id"`
	Kind       ActivityKind `json:"type"`
	OccurredAt Timestamp    `json:"occurred_at"`
	Status     UploadStatus `json:"upload_status"`
}

// Interval is a reconciled, contiguous span of one activity kind.
type Interval struct {
	Kind         ActivityKind `json:"type"`
	Start        Timestamp    `json:"start"`
	DurationSecs int64        `json:"duration_secs"`
}

// End returns the exclusive end of the interval.
func (iv Interval) End() Timestamp { return iv.Start.Add(iv.DurationSecs) }

// Duration returns the interval length as a time.Duration.
func (iv Interval) Duration() time.Duration {
	return time.Duration(iv.DurationSecs) * time.Second
}

// Reminder is a delivered "time to move" nudge.
type Reminder struct {
	ID         string    `json:"id"`
	StillSince Timestamp `json:"still_since"`
	StillSecs  int64     `json:"still_secs"`
	CreatedAt  time.Time `json:"created_at"`
}
