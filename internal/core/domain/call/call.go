package call

import (
	"time"

	"github.com/google/uuid"
)

// Call is a single site visit: the field notes and audio transcript
// captured on site, plus the report generated from them.
type Call struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	ProjectID  uuid.UUID  `json:"project_id" db:"project_id"`
	OwnerID    uuid.UUID  `json:"owner_id" db:"owner_id"`
	Title      string     `json:"title" db:"title"`
	VisitDate  time.Time  `json:"visit_date" db:"visit_date"`
	Notes      string     `json:"notes" db:"notes"`
	Transcript string     `json:"transcript" db:"transcript"`
	ReportHTML string     `json:"report_html" db:"report_html"`
	Status     CallStatus `json:"status" db:"status"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

type CallStatus string

const (
	StatusDraft       CallStatus = "draft"
	StatusTranscribed CallStatus = "transcribed"
	StatusReported    CallStatus = "reported"
)

// CreateCallRequest represents the request to record a new site visit
type CreateCallRequest struct {
	ProjectID uuid.UUID  `json:"project_id"`
	Title     string     `json:"title"`
	VisitDate *time.Time `json:"visit_date,omitempty"`
	Notes     string     `json:"notes"`
}

// UpdateCallRequest represents the request to update a site visit
type UpdateCallRequest struct {
	Title     *string    `json:"title,omitempty"`
	VisitDate *time.Time `json:"visit_date,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}
