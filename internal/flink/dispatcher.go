package flink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// StatusSubmitted is reported when the cluster accepted a statement without
// saying anything more specific.
const StatusSubmitted = "SUBMITTED"

// StatementResult is the normalized outcome of a dispatched statement.
type StatementResult struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	LogsURL string `json:"logs_url"`
}

// Dispatcher posts statements to the resolved application job and normalizes
// the heterogeneous response shapes the control endpoints produce.
type Dispatcher struct {
	client      *Client
	endpoint    string
	logsBaseURL string
	timeout     time.Duration

	once      sync.Once
	dedicated *http.Client
}

type DispatcherOption func(*Dispatcher)

// WithStatementEndpoint overrides the default statement route. The template
// may contain a {job_id} placeholder and may be absolute, in which case
// statements go out on a dedicated connection instead of the cluster one.
func WithStatementEndpoint(endpoint string) DispatcherOption {
	return func(d *Dispatcher) {
		d.endpoint = endpoint
	}
}

func WithLogsBaseURL(logsBaseURL string) DispatcherOption {
	return func(d *Dispatcher) {
		d.logsBaseURL = logsBaseURL
	}
}

func WithDispatchTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.timeout = timeout
	}
}

func NewDispatcher(client *Client, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		client:  client,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type statementPayload struct {
	SQL   string            `json:"sql"`
	Vars  map[string]string `json:"vars"`
	JobID string            `json:"job_id"`
}

// Dispatch posts the statement to the job's statement endpoint.
func (d *Dispatcher) Dispatch(ctx context.Context, job *Job, sql string, variables map[string]string) (*StatementResult, error) {
	if variables == nil {
		variables = map[string]string{}
	}
	payload := statementPayload{SQL: sql, Vars: variables, JobID: job.ID}

	var resp *http.Response
	var err error
	if d.endpoint != "" {
		url := strings.ReplaceAll(d.endpoint, "{job_id}", job.ID)
		if isAbsoluteURL(url) {
			resp, err = postJSON(ctx, d.dedicatedClient(), url, payload)
		} else {
			if !strings.HasPrefix(url, "/") {
				url = "/" + url
			}
			resp, err = postJSON(ctx, d.client.client, d.client.baseURL+url, payload)
		}
	} else {
		resp, err = postJSON(ctx, d.client.client, fmt.Sprintf("%s/jobs/%s/control/submit-sql", d.client.baseURL, job.ID), payload)
	}
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return d.normalize(job, resp)
}

func (d *Dispatcher) normalize(job *Job, resp *http.Response) (*StatementResult, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading statement response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, NewSubmissionError(
			fmt.Sprintf("Flink REST API returned %d when submitting SQL", resp.StatusCode),
			resp.StatusCode,
			string(body),
		)
	}

	result := &StatementResult{JobID: job.ID, Status: StatusSubmitted}
	if resp.StatusCode == http.StatusNoContent || len(body) == 0 {
		result.LogsURL = d.logsURL(job.ID)
		return result, nil
	}

	var decoded struct {
		JobID   string `json:"job_id"`
		Status  string `json:"status"`
		LogsURL string `json:"logs_url"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decoding statement response: %w", err)
	}
	if decoded.JobID != "" {
		result.JobID = decoded.JobID
	}
	if decoded.Status != "" {
		result.Status = decoded.Status
	}
	result.LogsURL = decoded.LogsURL
	if result.LogsURL == "" {
		result.LogsURL = d.logsURL(job.ID)
	}
	return result, nil
}

// dedicatedClient lazily creates the connection pool used for absolute
// statement endpoints. It is created once and shared from then on.
func (d *Dispatcher) dedicatedClient() *http.Client {
	d.once.Do(func() {
		d.dedicated = &http.Client{Timeout: d.timeout}
	})
	return d.dedicated
}

// Close releases the dedicated statement connection if one was ever created.
func (d *Dispatcher) Close() {
	if d.dedicated != nil {
		d.dedicated.CloseIdleConnections()
	}
}

func (d *Dispatcher) logsURL(jobID string) string {
	if d.logsBaseURL != "" {
		return strings.TrimRight(d.logsBaseURL, "/") + "/" + jobID
	}
	return d.client.baseURL + "/#/job/" + jobID
}

func isAbsoluteURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
