package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventFilesAdded        EventType = "FilesAdded"
	EventFileRemoved       EventType = "FileRemoved"
	EventSelectionCleared  EventType = "SelectionCleared"
	EventScanStarted       EventType = "ScanStarted"
	EventScanCompleted     EventType = "ScanCompleted"
	EventUploadStarted     EventType = "UploadStarted"
	EventUploadFinished    EventType = "UploadFinished"
	EventConfigLoaded      EventType = "ConfigLoaded"
	EventConfigSaved       EventType = "ConfigSaved"
	EventError             EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// FilesAddedEvent is emitted when picks are accepted into the selection
type FilesAddedEvent struct {
	Files   []SelectedFile // accepted entries, in insertion order
	Skipped int            // candidates dropped as duplicates
}

func (e FilesAddedEvent) Type() EventType { return EventFilesAdded }

// FileRemovedEvent is emitted when an entry is removed from the selection
type FileRemovedEvent struct {
	File SelectedFile
}

func (e FileRemovedEvent) Type() EventType { return EventFileRemoved }

// SelectionClearedEvent is emitted when the selection is emptied
type SelectionClearedEvent struct {
	Removed int
}

func (e SelectionClearedEvent) Type() EventType { return EventSelectionCleared }

// ScanStartedEvent is emitted when a directory scan begins
type ScanStartedEvent struct {
	Root string
}

func (e ScanStartedEvent) Type() EventType { return EventScanStarted }

// ScanCompletedEvent is emitted when a directory scan completes
type ScanCompletedEvent struct {
	Root       string
	FilesFound int
}

func (e ScanCompletedEvent) Type() EventType { return EventScanCompleted }

// UploadStartedEvent is emitted when a submission passes validation and
// the request is about to be sent
type UploadStartedEvent struct {
	AttemptID string
	Files     int
	Bytes     int64
}

func (e UploadStartedEvent) Type() EventType { return EventUploadStarted }

// UploadFinishedEvent is emitted with the terminal outcome of one attempt
type UploadFinishedEvent struct {
	AttemptID string
	Outcome   Outcome
}

func (e UploadFinishedEvent) Type() EventType { return EventUploadFinished }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path     string
	Endpoint string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
