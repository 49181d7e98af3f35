// Package upload implements the submission side of the widget: one
// multipart POST per explicit submit, interpreted into a fixed set of
// outcomes.
//
// The controller is a small state machine:
//
//	Idle → Validating → InFlight → {Success | UserError | ServerError | TransportError} → Idle
//
// State transitions happen only on the update loop (SubmitTriggered,
// ResponseReceived); the network request itself runs off-loop via Do,
// which touches no controller state. Error outcomes stay displayed until
// the next submit re-enters validation; only one request may be in flight
// at a time and a submit while busy is refused.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"dropstage/internal/config"
	"dropstage/internal/domain"
	"dropstage/internal/eventbus"
)

var (
	// ErrBusy is returned when a submit is triggered while a request is in flight
	ErrBusy = errors.New("upload already in flight")
	// ErrRejected is returned when validation fails; the outcome carries the message
	ErrRejected = errors.New("submission rejected")
)

// Attempt is one accepted submission: the selection snapshot and form
// values frozen at validation time.
type Attempt struct {
	ID     string
	Files  []domain.SelectedFile
	Fields []FormValue
}

// Controller validates, transmits and interprets one upload attempt at a time
type Controller struct {
	client    *http.Client
	endpoint  string
	fileField string
	bus       eventbus.EventBus
	outcome   domain.Outcome
}

// NewController creates a controller for the configured endpoint
func NewController(cfg *config.Config, bus eventbus.EventBus) *Controller {
	return &Controller{
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		endpoint:  cfg.Endpoint,
		fileField: cfg.FileField,
		bus:       bus,
	}
}

// Outcome returns the currently displayed outcome
func (c *Controller) Outcome() domain.Outcome {
	return c.outcome
}

// InFlight reports whether a request is currently outstanding
func (c *Controller) InFlight() bool {
	return c.outcome.State == domain.StateInFlight
}

// SubmitTriggered validates the selection and form and, when accepted,
// moves to InFlight and returns the attempt to run with Do. An empty
// selection or missing required field yields a UserError outcome and
// ErrRejected without any network contact. A submit while a request is
// outstanding returns ErrBusy and leaves the current outcome untouched.
func (c *Controller) SubmitTriggered(files []domain.SelectedFile, fields []FormValue) (*Attempt, error) {
	if c.outcome.State == domain.StateInFlight {
		return nil, ErrBusy
	}

	c.outcome = domain.Outcome{State: domain.StateValidating}

	if len(files) == 0 {
		return nil, c.reject("select at least one file")
	}
	for _, f := range fields {
		if f.Required && f.Value == "" {
			return nil, c.reject(fmt.Sprintf("%s is required", f.Name))
		}
	}

	a := &Attempt{
		ID:     uuid.NewString(),
		Files:  files,
		Fields: fields,
	}

	c.outcome = domain.Outcome{
		State:   domain.StateInFlight,
		Message: fmt.Sprintf("uploading %d file(s)", len(files)),
		Files:   len(files),
	}

	if c.bus != nil {
		var bytes int64
		for _, f := range files {
			bytes += f.Size
		}
		c.bus.Publish(eventbus.UploadStartedEvent{
			AttemptID: a.ID,
			Files:     len(files),
			Bytes:     bytes,
		})
	}

	return a, nil
}

// Do sends the attempt and returns its terminal outcome. It never mutates
// controller state, so it is safe to run off the update loop; report the
// result back through ResponseReceived. This is the sole suspension point
// of the widget and there is no cancellation once the request is sent.
func (c *Controller) Do(ctx context.Context, a *Attempt) domain.Outcome {
	body, contentType := newPayload(c.fileField, a.Fields, a.Files)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		body.Close()
		return domain.Outcome{
			State:   domain.StateTransportError,
			Message: fmt.Sprintf("bad request: %v", err),
		}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Outcome{
			State:   domain.StateTransportError,
			Message: fmt.Sprintf("upload failed: %v", err),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Outcome{
			State:   domain.StateTransportError,
			Message: fmt.Sprintf("reading response: %v", err),
		}
	}

	out := Interpret(resp.StatusCode, raw)
	if out.State == domain.StateServerError {
		// Keep the raw reply around for diagnostics
		log.Printf("upload attempt %s: HTTP %d, body %q", a.ID, resp.StatusCode, truncate(string(raw), maxBodyInMessage))
	}
	return out
}

// ResponseReceived records the terminal outcome of the attempt and returns
// the controller to a state accepting new submits
func (c *Controller) ResponseReceived(a *Attempt, out domain.Outcome) {
	c.outcome = out
	if c.bus != nil {
		c.bus.Publish(eventbus.UploadFinishedEvent{AttemptID: a.ID, Outcome: out})
	}
}

// reject records a user error and keeps the controller accepting submits
func (c *Controller) reject(msg string) error {
	c.outcome = domain.Outcome{State: domain.StateUserError, Message: msg}
	return fmt.Errorf("%w: %s", ErrRejected, msg)
}
