package domain

// JobStatus enumerates remote job lifecycle states as reported by the API.
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusCanceled  JobStatus = "CANCELED"
)

// Terminal reports whether no further status transition can occur.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCanceled:
		return true
	}
	return false
}

// JobRequest describes a single text-to-image submission. Immutable once
// submitted. RequestID must never be reused for a logically distinct
// submission; the remote service uses it for idempotent resubmission
// detection.
type JobRequest struct {
	RequestID      string
	Prompt         string
	NegativePrompt string
	ModelID        string
	Width          int
	Height         int
	Steps          int
	Sampler        string
	CfgScale       float64
	ClipSkip       int
}

// Resource is an artifact attached to a completed job.
type Resource struct {
	URL  string `json:"url"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// Job is the remote-reported state of a submitted job. It mutates only via
// polling and is final once Status is terminal.
type Job struct {
	ID        string     `json:"jobId"`
	Status    JobStatus  `json:"status"`
	Progress  float64    `json:"progress,omitempty"`
	Resources []Resource `json:"resources,omitempty"`
	Message   string     `json:"message,omitempty"`
}

// FirstResourceURL returns the URL of the first attached resource, or "".
func (j *Job) FirstResourceURL() string {
	if j == nil || len(j.Resources) == 0 {
		return ""
	}
	return j.Resources[0].URL
}
