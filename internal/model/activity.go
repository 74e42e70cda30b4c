// Package model defines the activity log data types.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument marks malformed input. Callers match it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// ActivityKind is the detected physical-activity state.
type ActivityKind int

const (
	Unknown ActivityKind = iota
	Still
	Walking
	Running
	OnFoot
	OnBicycle
	InVehicle
	// ActivityEnd terminates a reconciliation sweep at "now". Never persisted.
	ActivityEnd
)

// AllKinds lists every kind that may appear in the log.
var AllKinds = []ActivityKind{Still, Walking, Running, OnFoot, OnBicycle, InVehicle, Unknown}

func (k ActivityKind) String() string {
	switch k {
	case Unknown:
		return "UNKNOWN"
	case Still:
		return "STILL"
	case Walking:
		return "WALKING"
	case Running:
		return "RUNNING"
	case OnFoot:
		return "ON_FOOT"
	case OnBicycle:
		return "ON_BICYCLE"
	case InVehicle:
		return "IN_VEHICLE"
	case ActivityEnd:
		return "ACTIVITY_END"
	}
	return fmt.Sprintf("ActivityKind(%d)", int(k))
}

// IsMoving reports whether k is a movement state.
func (k ActivityKind) IsMoving() bool {
	switch k {
	case Walking, Running, OnFoot, OnBicycle, InVehicle:
		return true
	case Unknown, Still, ActivityEnd:
		return false
	}
	return false
}

// Persistable reports whether k may be written to the event log.
func (k ActivityKind) Persistable() bool {
	switch k {
	case Unknown, Still, Walking, Running, OnFoot, OnBicycle, InVehicle:
		return true
	case ActivityEnd:
		return false
	}
	return false
}

var kindAliases = map[string]ActivityKind{
	"unknown":      Unknown,
	"still":        Still,
	"stationary":   Still,
	"walking":      Walking,
	"walk":         Walking,
	"running":      Running,
	"run":          Running,
	"on_foot":      OnFoot,
	"foot":         OnFoot,
	"on_bicycle":   OnBicycle,
	"bicycle":      OnBicycle,
	"bike":         OnBicycle,
	"in_vehicle":   InVehicle,
	"vehicle":      InVehicle,
	"car":          InVehicle,
	"activity_end": ActivityEnd,
}

// ParseActivityKind parses a kind name such as "STILL", "on-foot" or "bike".
func ParseActivityKind(s string) (ActivityKind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	if k, ok := kindAliases[key]; ok {
		return k, nil
	}
	return Unknown, fmt.Errorf("%w: unknown activity kind %q", ErrInvalidArgument, s)
}

// MarshalText encodes the kind by name.
func (k ActivityKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *ActivityKind) UnmarshalText(b []byte) error {
	parsed, err := ParseActivityKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
