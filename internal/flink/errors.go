package flink

import (
	"errors"
)

// JobNotAvailableError is returned when no application job is running and
// none can be launched.
type JobNotAvailableError struct {
	error
}

func NewJobNotAvailableError() *JobNotAvailableError {
	return &JobNotAvailableError{errors.New("No running Flink application job found. Configure FLINK_APPLICATION_JOB_ID or provide a launchable JAR.")}
}

// SubmissionError is returned when the cluster rejected a statement or a
// launch step came back without the field the gateway needs. Stderr carries
// the raw upstream body so clients can see what the cluster said.
type SubmissionError struct {
	error
	StatusCode int
	Stderr     string
}

func NewSubmissionError(message string, statusCode int, stderr string) *SubmissionError {
	return &SubmissionError{error: errors.New(message), StatusCode: statusCode, Stderr: stderr}
}

// TruncateStderr caps a captured upstream body at limit bytes, appending a
// marker when anything was cut.
func TruncateStderr(stderr string, limit int) string {
	if limit > 0 && len(stderr) > limit {
		return stderr[:limit] + "..."
	}
	return stderr
}
