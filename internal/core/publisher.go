package core

import (
	"context"
	"time"
)

// Publisher receives a TransitionRecord for every fire, successful or not.
// Publish is called synchronously from Fire and must not block.
type Publisher interface {
	Publish(ctx context.Context, record TransitionRecord) error
	Close() error
}

// TransitionRecord is the telemetry view of an outcome, with states and
// triggers rendered as strings.
type TransitionRecord struct {
	MachineID string    `json:"machineID" yaml:"machineID"`
	From      string    `json:"from" yaml:"from"`
	Trigger   string    `json:"trigger" yaml:"trigger"`
	To        string    `json:"to" yaml:"to"`
	Internal  bool      `json:"internal,omitempty" yaml:"internal,omitempty"`
	Failed    bool      `json:"failed,omitempty" yaml:"failed,omitempty"`
	Reason    string    `json:"reason,omitempty" yaml:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}
