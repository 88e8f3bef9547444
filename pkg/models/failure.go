package models

import "fmt"

// FailureKind classifies a job or client failure. Retry-vs-fatal decisions are
// a function of the kind, never of message inspection.
type FailureKind string

const (
	// FailTimeout: transient transport failure (connect/read timeout). The
	// reasoning client retries these itself before surfacing one.
	FailTimeout FailureKind = "timeout"
	// FailUpstreamStatus: the reasoning service answered with a non-2xx status.
	FailUpstreamStatus FailureKind = "upstream_status"
	// FailUpstreamSchema: the response was malformed, truncated, or did not
	// parse as the expected structured schema.
	FailUpstreamSchema FailureKind = "upstream_schema"
	// FailDataIntegrity: the job references data that is missing or invalid.
	FailDataIntegrity FailureKind = "data_integrity"
	// FailConfig: a configuration problem (e.g. missing API credential) that
	// is not specific to any one job.
	FailConfig FailureKind = "config"
)

// Failure is a tagged error carrying enough context for the short
// machine-readable summary stored in a job's last_error column.
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

// NewFailure builds a tagged failure with a formatted message.
func NewFailure(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
