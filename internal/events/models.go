package events

// StatementEvent is the audit record emitted for every statement the gateway
// dispatched to the cluster.
type StatementEvent struct {
	RequestID string `json:"request_id"`
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	Replayed  bool   `json:"replayed"`
}
