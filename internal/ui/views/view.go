package views

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"dropstage/internal/domain"
)

// Focus identifies which pane currently receives input
type Focus int

const (
	FocusPicker Focus = iota
	FocusPath
	FocusForm
	FocusList
)

// FieldView is one auxiliary form field ready for rendering
type FieldView struct {
	Label string
	Input string
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width       int
	Height      int
	Focus       Focus
	PickerView  string
	PathView    string
	Fields      []FieldView
	FocusedField int
	Files       []domain.SelectedFile
	ListIndex   int
	Outcome     domain.Outcome
	SpinnerView string
	Note        string // transient notice (duplicates skipped, scan progress)
	Scanning    bool
	ShowSizes   bool
	HelpView    string
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.styles.Title.Render("dropstage"))
	content.WriteString("\n")

	content.WriteString(r.renderPicker(state))
	content.WriteString("\n")
	content.WriteString(r.renderPath(state))
	content.WriteString("\n")
	content.WriteString(r.renderForm(state))
	content.WriteString("\n")
	content.WriteString(r.renderList(state))
	content.WriteString(r.renderStatus(state))

	if state.HelpView != "" {
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(state.HelpView))
	}

	return r.styles.Main.Render(content.String())
}

func (r *Renderer) renderPicker(state ViewState) string {
	pane := r.styles.Pane
	if state.Focus == FocusPicker {
		pane = r.styles.PaneFocused
	}
	header := r.styles.Label.Render("Pick a file (enter to stage)")
	return pane.Render(header + "\n" + state.PickerView)
}

func (r *Renderer) renderPath(state ViewState) string {
	pane := r.styles.Pane
	if state.Focus == FocusPath {
		// Highlighted while input hovers here, like a drop target
		pane = r.styles.PaneFocused
	}
	header := r.styles.Label.Render("Or drop a path (folders are staged recursively)")
	return pane.Render(header + "\n" + state.PathView)
}

func (r *Renderer) renderForm(state ViewState) string {
	if len(state.Fields) == 0 {
		return ""
	}

	lines := make([]string, 0, len(state.Fields))
	for i, f := range state.Fields {
		label := r.styles.Label.Render(f.Label + ":")
		line := fmt.Sprintf("%s %s", label, f.Input)
		if state.Focus == FocusForm && i == state.FocusedField {
			line = "> " + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n") + "\n"
}

func (r *Renderer) renderList(state ViewState) string {
	content := &strings.Builder{}

	title := fmt.Sprintf("Staged files (%d", len(state.Files))
	if state.ShowSizes {
		var total int64
		for _, f := range state.Files {
			total += f.Size
		}
		title += ", " + humanize.Bytes(uint64(total))
	}
	title += ")"
	content.WriteString(r.styles.Label.Render(title))
	content.WriteString("\n")

	if len(state.Files) == 0 {
		content.WriteString(r.styles.Dim.Render("  nothing staged yet"))
		content.WriteString("\n")
		return content.String()
	}

	for i, f := range state.Files {
		line := "  " + f.Name
		if state.ShowSizes {
			line += "  " + r.styles.Dim.Render(humanize.Bytes(uint64(f.Size)))
		}
		if state.Focus == FocusList && i == state.ListIndex {
			line = r.styles.HighlightBg.Render(line + "  (x to remove)")
		}
		content.WriteString(line)
		content.WriteString("\n")
	}

	return content.String()
}

func (r *Renderer) renderStatus(state ViewState) string {
	var line string

	switch state.Outcome.State {
	case domain.StateInFlight:
		line = r.styles.StatusLoading.Render(
			fmt.Sprintf("%s uploading %d file(s)…", state.SpinnerView, state.Outcome.Files))
	case domain.StateSuccess:
		line = r.styles.StatusSuccess.Render("✓ " + state.Outcome.Message)
	case domain.StateUserError, domain.StateServerError, domain.StateTransportError:
		line = r.styles.StatusError.Render("✗ " + state.Outcome.Message)
	}

	if state.Scanning {
		note := r.styles.StatusLoading.Render(state.SpinnerView + " scanning…")
		if line != "" {
			line += "  " + note
		} else {
			line = note
		}
	}

	if state.Note != "" {
		note := r.styles.Dim.Render(state.Note)
		if line != "" {
			line += "  " + note
		} else {
			line = note
		}
	}

	if line == "" {
		return ""
	}
	return r.styles.Status.Render(line) + "\n"
}
