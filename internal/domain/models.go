package domain

import "fmt"

// SelectedFile is a reference to a local file the user has staged for upload.
// The file's bytes are only read when the upload request is actually sent.
type SelectedFile struct {
	ID   string // unique per accepted pick, assigned by the selection store
	Name string
	Size int64
	Path string
}

// Key returns the deduplication key for the file. Two picks with the same
// name and size are treated as the same logical file.
func (f SelectedFile) Key() FileKey {
	return FileKey{Name: f.Name, Size: f.Size}
}

// FileKey identifies a logical file for deduplication purposes.
type FileKey struct {
	Name string
	Size int64
}

// SubmissionState is the current phase of the submission controller.
type SubmissionState int

const (
	StateIdle SubmissionState = iota
	StateValidating
	StateInFlight
	StateSuccess
	StateUserError
	StateServerError
	StateTransportError
)

// Terminal reports whether the state ends one submit attempt.
func (s SubmissionState) Terminal() bool {
	switch s {
	case StateSuccess, StateUserError, StateServerError, StateTransportError:
		return true
	}
	return false
}

func (s SubmissionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateInFlight:
		return "in-flight"
	case StateSuccess:
		return "success"
	case StateUserError:
		return "user error"
	case StateServerError:
		return "server error"
	case StateTransportError:
		return "transport error"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Outcome is the result classification of one submission attempt. Exactly one
// outcome is current at a time; a new attempt supersedes the previous one.
type Outcome struct {
	State   SubmissionState
	Message string
	Files   int // files in the attempt, shown while in flight
}

// Failed reports whether the outcome is one of the error kinds.
func (o Outcome) Failed() bool {
	return o.State == StateUserError || o.State == StateServerError || o.State == StateTransportError
}
