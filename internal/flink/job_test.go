package flink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobIsRunning(t *testing.T) {
	tests := []struct {
		name    string
		state   JobState
		running bool
	}{
		{name: "created", state: JobStateCreated, running: true},
		{name: "running", state: JobStateRunning, running: true},
		{name: "reconciling", state: JobStateReconciling, running: true},
		{name: "initializing", state: JobStateInitializing, running: true},
		{name: "lowercase running", state: JobState("running"), running: true},
		{name: "mixed case", state: JobState("Created"), running: true},
		{name: "finished", state: JobStateFinished, running: false},
		{name: "failed", state: JobStateFailed, running: false},
		{name: "canceled", state: JobStateCanceled, running: false},
		{name: "unknown", state: JobStateUnknown, running: false},
		{name: "empty", state: JobState(""), running: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			job := &Job{ID: "j-1", State: test.state}
			assert.Equal(t, test.running, job.IsRunning())
		})
	}
}
