package flink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/streamops/flink-sql-proxy/pkg/metrics"
	"go.uber.org/zap"
)

// Client is a minimal client for the cluster's REST API, covering only the
// endpoints the proxy needs to route statements to an application job.
type Client struct {
	baseURL string
	appName string
	client  *http.Client
}

type ClientOption func(*Client)

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = timeout
	}
}

func NewClient(baseURL string, applicationName string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		appName: applicationName,
		client:  &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Close releases pooled connections to the cluster.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}

type jobOverviewEntry struct {
	JID   string   `json:"jid"`
	JobID string   `json:"jobid"`
	Name  string   `json:"name"`
	State JobState `json:"state"`
}

// ListJobs returns every job the cluster reports in its overview. The id
// field name varies between cluster versions; entries carrying neither
// variant are dropped.
func (c *Client) ListJobs(ctx context.Context) ([]Job, error) {
	resp, err := c.get(ctx, "/jobs/overview")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("listing jobs: Flink REST API returned %d", resp.StatusCode)
	}

	var overview struct {
		Jobs []jobOverviewEntry `json:"jobs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&overview); err != nil {
		return nil, fmt.Errorf("decoding job overview: %w", err)
	}

	jobs := make([]Job, 0, len(overview.Jobs))
	for _, entry := range overview.Jobs {
		id := entry.JID
		if id == "" {
			id = entry.JobID
		}
		if id == "" {
			continue
		}
		jobs = append(jobs, Job{ID: id, State: entry.State, Name: entry.Name})
	}
	return jobs, nil
}

// GetJob fetches a single job by id. A 404 means the job is gone, which is
// not an error here.
func (c *Client) GetJob(ctx context.Context, id string) (*Job, error) {
	resp, err := c.get(ctx, "/jobs/"+id)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetching job %s: Flink REST API returned %d", id, resp.StatusCode)
	}

	var payload struct {
		Name  string   `json:"name"`
		State JobState `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding job %s: %w", id, err)
	}

	job := &Job{ID: id, State: payload.State, Name: payload.Name}
	if job.Name == "" {
		job.Name = c.appName
	}
	if job.State == "" {
		job.State = JobStateUnknown
	}
	return job, nil
}

// UploadJar registers the artifact with the cluster and returns its jar id,
// derived from the filename the cluster stored it under.
func (c *Client) UploadJar(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", NewSubmissionError(fmt.Sprintf("Application JAR '%s' is not accessible inside the proxy container", path), http.StatusBadRequest, "")
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="jarfile"; filename="%s"`, filepath.Base(path)))
	header.Set("Content-Type", "application/java-archive")
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("copying jar into multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/jars/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading upload response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("uploading jar: Flink REST API returned %d", resp.StatusCode)
	}

	var uploaded struct {
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal(body, &uploaded); err != nil {
		return "", fmt.Errorf("decoding upload response: %w", err)
	}
	if uploaded.Filename == "" {
		return "", NewSubmissionError("Unable to determine uploaded JAR identifier", resp.StatusCode, string(body))
	}

	jarID := filepath.Base(uploaded.Filename)
	metrics.IncreaseJarUploadsTotalMetric()
	zap.S().Named("flink").Infof("Uploaded application jar %s", jarID)
	return jarID, nil
}

// RunJar launches the uploaded jar in application mode and returns the id of
// the job the cluster created for it.
func (c *Client) RunJar(ctx context.Context, jarID string, entryClass string, programArgs []string) (string, error) {
	payload := map[string]any{}
	if entryClass != "" {
		payload["entryClass"] = entryClass
	}
	if len(programArgs) > 0 {
		payload["programArgsList"] = programArgs
	}

	resp, err := postJSON(ctx, c.client, c.baseURL+"/jars/"+jarID+"/run?mode=application", payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading launch response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("launching jar %s: Flink REST API returned %d", jarID, resp.StatusCode)
	}

	var launched struct {
		JobID    string `json:"jobid"`
		JobIDAlt string `json:"job_id"`
	}
	if err := json.Unmarshal(body, &launched); err != nil {
		return "", fmt.Errorf("decoding launch response: %w", err)
	}
	jobID := launched.JobID
	if jobID == "" {
		jobID = launched.JobIDAlt
	}
	if jobID == "" {
		return "", NewSubmissionError("Flink did not return a job id when launching the application", resp.StatusCode, string(body))
	}

	metrics.IncreaseJobLaunchesTotalMetric()
	zap.S().Named("flink").Infof("Launched Flink application job %s", jobID)
	return jobID, nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return resp, nil
}

func postJSON(ctx context.Context, client *http.Client, url string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return resp, nil
}
