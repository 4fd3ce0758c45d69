package tasks

import "io"

// Page is everything the list view needs for one full render.
type Page struct {
	Tasks  []Task
	Search string
	// Filter is empty when no status filter was applied.
	Filter Status
	// Notice is a blocking message shown above the list.
	Notice string
	// CSRFToken is echoed in every form that changes state.
	CSRFToken string
}

// Dialog is a single-task prompt or confirmation page.
type Dialog struct {
	Task      Task
	Message   string
	CSRFToken string
}

// Renderer draws pages. Every call rebuilds the output from scratch.
type Renderer interface {
	Render(w io.Writer, page Page) error
	RenderPrompt(w io.Writer, d Dialog) error
	RenderConfirm(w io.Writer, d Dialog) error
}

type createRequest struct {
	Text string `json:"text"`
}

type editRequest struct {
	// nil means the user cancelled the prompt
	Text *string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}
