package flink

import "strings"

type JobState string

const (
	JobStateCreated      JobState = "CREATED"
	JobStateRunning      JobState = "RUNNING"
	JobStateReconciling  JobState = "RECONCILING"
	JobStateInitializing JobState = "INITIALIZING"
	JobStateFinished     JobState = "FINISHED"
	JobStateFailed       JobState = "FAILED"
	JobStateCanceled     JobState = "CANCELED"
	JobStateUnknown      JobState = "UNKNOWN"
)

// Job is the gateway's view of an application job on the cluster.
type Job struct {
	ID    string
	State JobState
	Name  string
}

// IsRunning reports whether the job can accept statements. The cluster is not
// consistent about state casing across endpoints, so the check is case-insensitive.
func (j *Job) IsRunning() bool {
	switch JobState(strings.ToUpper(string(j.State))) {
	case JobStateCreated, JobStateRunning, JobStateReconciling, JobStateInitializing:
		return true
	default:
		return false
	}
}
