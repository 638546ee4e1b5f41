package report

import (
	"github.com/google/uuid"
)

// Transcription is the result of a proxied audio transcription.
type Transcription struct {
	Text string `json:"text"`
}

// GenerateRequest asks for an HTML report built from a site-visit
// transcript. When CallID is set, the transcript is loaded from (and the
// result persisted onto) that call; otherwise Transcript is used as given.
type GenerateRequest struct {
	CallID       *uuid.UUID `json:"call_id,omitempty"`
	Transcript   string     `json:"transcript,omitempty"`
	TemplateID   *uuid.UUID `json:"template_id,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
}

// RefineRequest asks for a revision of an existing HTML report.
type RefineRequest struct {
	CallID       *uuid.UUID `json:"call_id,omitempty"`
	ReportHTML   string     `json:"report_html,omitempty"`
	Instructions string     `json:"instructions"`
}

// GenerateTemplateRequest asks for a new report template from a
// natural-language description. Save persists it under Name.
type GenerateTemplateRequest struct {
	Description string `json:"description"`
	Name        string `json:"name,omitempty"`
	Save        bool   `json:"save"`
}

// Result is a generated or refined HTML document.
type Result struct {
	HTML string `json:"html"`
}

// ShareRequest emails a generated report to a recipient.
type ShareRequest struct {
	To         string `json:"to"`
	Subject    string `json:"subject"`
	ReportHTML string `json:"report_html"`
}
