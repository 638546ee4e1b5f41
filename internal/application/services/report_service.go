package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/archstack/fieldreport/internal/core/domain/call"
	"github.com/archstack/fieldreport/internal/core/domain/report"
	"github.com/archstack/fieldreport/internal/core/domain/template"
	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	reportSystemPrompt = "You are an assistant for architecture and construction professionals. " +
		"You turn site-visit transcripts and field notes into clear, well-structured HTML site reports. " +
		"Respond with a complete HTML document only, no commentary."

	refineSystemPrompt = "You are an assistant for architecture and construction professionals. " +
		"You revise existing HTML site reports according to the user's instructions, preserving " +
		"structure and content that the instructions do not touch. Respond with the full revised HTML only."

	templateSystemPrompt = "You design HTML report templates for architecture and construction site reports. " +
		"Use placeholder sections the report writer can fill in. Respond with the HTML template only."
)

// ReportService proxies the metered generative operations and persists
// their results onto the owning records.
type ReportService struct {
	ai           ports.AIClient
	callRepo     ports.CallRepository
	projectRepo  ports.ProjectRepository
	templateRepo ports.TemplateRepository
	logger       *logrus.Logger
}

func NewReportService(ai ports.AIClient, callRepo ports.CallRepository, projectRepo ports.ProjectRepository, templateRepo ports.TemplateRepository, logger *logrus.Logger) ports.ReportService {
	return &ReportService{
		ai:           ai,
		callRepo:     callRepo,
		projectRepo:  projectRepo,
		templateRepo: templateRepo,
		logger:       logger,
	}
}

func (s *ReportService) Transcribe(ctx context.Context, ownerID uuid.UUID, callID *uuid.UUID, filename string, audio io.Reader) (*report.Transcription, error) {
	text, err := s.ai.Transcribe(ctx, filename, audio)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	if callID != nil {
		c, err := s.ownedCall(ctx, ownerID, *callID)
		if err != nil {
			return nil, err
		}
		c.Transcript = text
		if c.Status == call.StatusDraft {
			c.Status = call.StatusTranscribed
		}
		c.UpdatedAt = time.Now()
		if err := s.callRepo.Update(ctx, c); err != nil {
			// The paid transcription succeeded; hand the text back even if
			// persisting it failed.
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"call_id": c.ID}).WithError(err).Error("failed to store transcript on call")
			}
		}
	}

	return &report.Transcription{Text: text}, nil
}

func (s *ReportService) GenerateReport(ctx context.Context, ownerID uuid.UUID, req *report.GenerateRequest) (*report.Result, error) {
	transcript := req.Transcript
	var c *call.Call

	if req.CallID != nil {
		var err error
		c, err = s.ownedCall(ctx, ownerID, *req.CallID)
		if err != nil {
			return nil, err
		}
		if transcript == "" {
			transcript = c.Transcript
		}
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("a transcript is required to generate a report")
	}

	prompt := s.buildReportPrompt(ctx, ownerID, c, transcript, req)

	raw, err := s.ai.Complete(ctx, reportSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("report generation failed: %w", err)
	}
	html := stripCodeFences(raw)

	if c != nil {
		c.ReportHTML = html
		c.Status = call.StatusReported
		c.UpdatedAt = time.Now()
		if err := s.callRepo.Update(ctx, c); err != nil {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"call_id": c.ID}).WithError(err).Error("failed to store generated report on call")
			}
		}
	}

	return &report.Result{HTML: html}, nil
}

func (s *ReportService) RefineReport(ctx context.Context, ownerID uuid.UUID, req *report.RefineRequest) (*report.Result, error) {
	if strings.TrimSpace(req.Instructions) == "" {
		return nil, fmt.Errorf("refinement instructions are required")
	}

	html := req.ReportHTML
	var c *call.Call
	if req.CallID != nil {
		var err error
		c, err = s.ownedCall(ctx, ownerID, *req.CallID)
		if err != nil {
			return nil, err
		}
		if html == "" {
			html = c.ReportHTML
		}
	}
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("a report is required to refine")
	}

	prompt := fmt.Sprintf("Current report:\n\n%s\n\nInstructions:\n%s", html, req.Instructions)
	raw, err := s.ai.Complete(ctx, refineSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("report refinement failed: %w", err)
	}
	refined := stripCodeFences(raw)

	if c != nil {
		c.ReportHTML = refined
		c.UpdatedAt = time.Now()
		if err := s.callRepo.Update(ctx, c); err != nil {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"call_id": c.ID}).WithError(err).Error("failed to store refined report on call")
			}
		}
	}

	return &report.Result{HTML: refined}, nil
}

func (s *ReportService) GenerateTemplate(ctx context.Context, ownerID uuid.UUID, req *report.GenerateTemplateRequest) (*template.Template, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("a template description is required")
	}

	raw, err := s.ai.Complete(ctx, templateSystemPrompt, req.Description)
	if err != nil {
		return nil, fmt.Errorf("template generation failed: %w", err)
	}
	html := stripCodeFences(raw)

	now := time.Now()
	name := req.Name
	if name == "" {
		name = fmt.Sprintf("Generated template %s", now.Format("2006-01-02 15:04"))
	}
	t := &template.Template{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Description: req.Description,
		ContentHTML: html,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.Save {
		if err := s.templateRepo.Create(ctx, t); err != nil {
			return nil, fmt.Errorf("failed to save generated template: %w", err)
		}
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"template_id": t.ID, "owner_id": ownerID}).Info("generated template saved")
		}
	}

	return t, nil
}

func (s *ReportService) ownedCall(ctx context.Context, ownerID, id uuid.UUID) (*call.Call, error) {
	c, err := s.callRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != ownerID {
		return nil, fmt.Errorf("call with ID %s not found", id)
	}
	return c, nil
}

func (s *ReportService) buildReportPrompt(ctx context.Context, ownerID uuid.UUID, c *call.Call, transcript string, req *report.GenerateRequest) string {
	var b strings.Builder

	if c != nil {
		if p, err := s.projectRepo.GetByID(ctx, c.ProjectID); err == nil {
			fmt.Fprintf(&b, "Project: %s\nClient: %s\nAddress: %s\n", p.Name, p.ClientName, p.Address)
		}
		fmt.Fprintf(&b, "Site visit: %s on %s\n", c.Title, c.VisitDate.Format("2006-01-02"))
		if c.Notes != "" {
			fmt.Fprintf(&b, "Field notes:\n%s\n", c.Notes)
		}
	}

	if req.TemplateID != nil {
		if t, err := s.templateRepo.GetByID(ctx, *req.TemplateID); err == nil && t.OwnerID == ownerID {
			fmt.Fprintf(&b, "\nUse this HTML template as the report layout:\n%s\n", t.ContentHTML)
		}
	}

	if req.Instructions != "" {
		fmt.Fprintf(&b, "\nAdditional instructions:\n%s\n", req.Instructions)
	}

	fmt.Fprintf(&b, "\nTranscript of the site visit:\n%s", transcript)
	return b.String()
}

// stripCodeFences removes a wrapping markdown code fence (``` or ```html)
// that models commonly add around HTML output.
func stripCodeFences(s string) string {
	out := strings.TrimSpace(s)
	if !strings.HasPrefix(out, "```") {
		return out
	}
	out = strings.TrimPrefix(out, "```")
	// Drop a language tag on the opening fence line.
	if idx := strings.Index(out, "\n"); idx >= 0 {
		first := strings.TrimSpace(out[:idx])
		if first == "" || !strings.ContainsAny(first, " <>") {
			out = out[idx+1:]
		}
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}
