package ui

import (
	"dropstage/internal/domain"
	"dropstage/internal/eventbus"
	"dropstage/internal/upload"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// submitResultMsg carries the terminal outcome of one upload attempt
type submitResultMsg struct {
	attempt *upload.Attempt
	outcome domain.Outcome
}

// scanResultMsg carries the files found under a staged directory
type scanResultMsg struct {
	root  string
	files []domain.SelectedFile
	err   error
}

// clearNoteMsg expires the transient status note
type clearNoteMsg struct {
	seq int
}
