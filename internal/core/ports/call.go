package ports

import (
	"context"

	"github.com/archstack/fieldreport/internal/core/domain/call"
	"github.com/google/uuid"
)

// CallRepository defines persistence for site-visit records
type CallRepository interface {
	Create(ctx context.Context, c *call.Call) error
	GetByID(ctx context.Context, id uuid.UUID) (*call.Call, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*call.Call, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*call.Call, error)
	Update(ctx context.Context, c *call.Call) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CallService defines owner-scoped site-visit operations
type CallService interface {
	CreateCall(ctx context.Context, ownerID uuid.UUID, req *call.CreateCallRequest) (*call.Call, error)
	GetCall(ctx context.Context, ownerID, id uuid.UUID) (*call.Call, error)
	ListCalls(ctx context.Context, ownerID uuid.UUID, projectID *uuid.UUID, limit, offset int) ([]*call.Call, error)
	UpdateCall(ctx context.Context, ownerID, id uuid.UUID, req *call.UpdateCallRequest) (*call.Call, error)
	DeleteCall(ctx context.Context, ownerID, id uuid.UUID) error
}
