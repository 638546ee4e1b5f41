package template

import (
	"time"

	"github.com/google/uuid"
)

// Template is a reusable HTML report layout a user applies when
// generating a report from a transcript.
type Template struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OwnerID     uuid.UUID `json:"owner_id" db:"owner_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	ContentHTML string    `json:"content_html" db:"content_html"`
	IsDefault   bool      `json:"is_default" db:"is_default"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CreateTemplateRequest represents the request to create a template
type CreateTemplateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ContentHTML string `json:"content_html"`
	IsDefault   bool   `json:"is_default"`
}

// UpdateTemplateRequest represents the request to update a template
type UpdateTemplateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ContentHTML *string `json:"content_html,omitempty"`
	IsDefault   *bool   `json:"is_default,omitempty"`
}
