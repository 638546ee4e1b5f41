package services

import (
	"context"
	"fmt"
	"time"

	"github.com/archstack/fieldreport/internal/core/domain/call"
	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CallService struct {
	callRepo    ports.CallRepository
	projectRepo ports.ProjectRepository
	logger      *logrus.Logger
}

func NewCallService(callRepo ports.CallRepository, projectRepo ports.ProjectRepository, logger *logrus.Logger) ports.CallService {
	return &CallService{callRepo: callRepo, projectRepo: projectRepo, logger: logger}
}

func (s *CallService) CreateCall(ctx context.Context, ownerID uuid.UUID, req *call.CreateCallRequest) (*call.Call, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("call title is required")
	}

	// The parent project must exist and belong to the caller.
	p, err := s.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, fmt.Errorf("project with ID %s not found", req.ProjectID)
	}

	now := time.Now()
	visitDate := now
	if req.VisitDate != nil {
		visitDate = *req.VisitDate
	}

	c := &call.Call{
		ID:        uuid.New(),
		ProjectID: req.ProjectID,
		OwnerID:   ownerID,
		Title:     req.Title,
		VisitDate: visitDate,
		Notes:     req.Notes,
		Status:    call.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.callRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"call_id": c.ID, "project_id": c.ProjectID, "owner_id": ownerID}).Info("site visit recorded")
	}
	return c, nil
}

func (s *CallService) getOwned(ctx context.Context, ownerID, id uuid.UUID) (*call.Call, error) {
	c, err := s.callRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != ownerID {
		return nil, fmt.Errorf("call with ID %s not found", id)
	}
	return c, nil
}

func (s *CallService) GetCall(ctx context.Context, ownerID, id uuid.UUID) (*call.Call, error) {
	return s.getOwned(ctx, ownerID, id)
}

func (s *CallService) ListCalls(ctx context.Context, ownerID uuid.UUID, projectID *uuid.UUID, limit, offset int) ([]*call.Call, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if projectID != nil {
		p, err := s.projectRepo.GetByID(ctx, *projectID)
		if err != nil {
			return nil, err
		}
		if p.OwnerID != ownerID {
			return nil, fmt.Errorf("project with ID %s not found", *projectID)
		}
		return s.callRepo.ListByProject(ctx, *projectID, limit, offset)
	}
	return s.callRepo.ListByOwner(ctx, ownerID, limit, offset)
}

func (s *CallService) UpdateCall(ctx context.Context, ownerID, id uuid.UUID, req *call.UpdateCallRequest) (*call.Call, error) {
	c, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.VisitDate != nil {
		c.VisitDate = *req.VisitDate
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}
	c.UpdatedAt = time.Now()

	if err := s.callRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CallService) DeleteCall(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}
	return s.callRepo.Delete(ctx, id)
}
