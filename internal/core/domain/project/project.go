package project

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID         uuid.UUID     `json:"id" db:"id"`
	OwnerID    uuid.UUID     `json:"owner_id" db:"owner_id"`
	Name       string        `json:"name" db:"name"`
	ClientName string        `json:"client_name" db:"client_name"`
	Address    string        `json:"address" db:"address"`
	Status     ProjectStatus `json:"status" db:"status"`
	Notes      string        `json:"notes" db:"notes"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}

type ProjectStatus string

const (
	StatusActive    ProjectStatus = "active"
	StatusOnHold    ProjectStatus = "on_hold"
	StatusCompleted ProjectStatus = "completed"
	StatusArchived  ProjectStatus = "archived"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusOnHold, StatusCompleted, StatusArchived:
		return true
	default:
		return false
	}
}

// CreateProjectRequest represents the request to create a project
type CreateProjectRequest struct {
	Name       string `json:"name"`
	ClientName string `json:"client_name"`
	Address    string `json:"address"`
	Notes      string `json:"notes"`
}

// UpdateProjectRequest represents the request to update a project
type UpdateProjectRequest struct {
	Name       *string        `json:"name,omitempty"`
	ClientName *string        `json:"client_name,omitempty"`
	Address    *string        `json:"address,omitempty"`
	Status     *ProjectStatus `json:"status,omitempty"`
	Notes      *string        `json:"notes,omitempty"`
}
