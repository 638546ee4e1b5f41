package services_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/archstack/fieldreport/internal/application/services"
	"github.com/archstack/fieldreport/internal/core/domain/call"
	"github.com/archstack/fieldreport/internal/core/domain/project"
	"github.com/archstack/fieldreport/internal/core/domain/report"
	"github.com/archstack/fieldreport/internal/core/domain/template"
	"github.com/archstack/fieldreport/test/mocks"
)

func TestReportService_TranscribePersistsOnOwnedCall(t *testing.T) {
	ownerID := uuid.New()
	visit := &call.Call{ID: uuid.New(), OwnerID: ownerID, ProjectID: uuid.New(), Status: call.StatusDraft}

	var updated *call.Call
	callRepo := &mocks.CallRepositoryMock{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*call.Call, error) { return visit, nil },
		UpdateFn:  func(ctx context.Context, c *call.Call) error { updated = c; return nil },
	}
	ai := &mocks.AIClientMock{
		TranscribeFn: func(ctx context.Context, filename string, audio io.Reader) (string, error) {
			return "we inspected the foundation", nil
		},
	}
	svc := services.NewReportService(ai, callRepo, &mocks.ProjectRepositoryMock{}, &mocks.TemplateRepositoryMock{}, logrus.New())

	result, err := svc.Transcribe(context.Background(), ownerID, &visit.ID, "visit.m4a", strings.NewReader("audio"))
	require.NoError(t, err)
	require.Equal(t, "we inspected the foundation", result.Text)
	require.NotNil(t, updated)
	require.Equal(t, "we inspected the foundation", updated.Transcript)
	require.Equal(t, call.StatusTranscribed, updated.Status)
}

func TestReportService_TranscribeRejectsForeignCall(t *testing.T) {
	visit := &call.Call{ID: uuid.New(), OwnerID: uuid.New()}
	callRepo := &mocks.CallRepositoryMock{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*call.Call, error) { return visit, nil },
	}
	ai := &mocks.AIClientMock{
		TranscribeFn: func(ctx context.Context, filename string, audio io.Reader) (string, error) { return "text", nil },
	}
	svc := services.NewReportService(ai, callRepo, &mocks.ProjectRepositoryMock{}, &mocks.TemplateRepositoryMock{}, logrus.New())

	_, err := svc.Transcribe(context.Background(), uuid.New(), &visit.ID, "visit.m4a", strings.NewReader("audio"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestReportService_GenerateReportStripsCodeFences(t *testing.T) {
	ai := &mocks.AIClientMock{
		CompleteFn: func(ctx context.Context, system, prompt string) (string, error) {
			return "```html\n<html><body>report</body></html>\n```", nil
		},
	}
	svc := services.NewReportService(ai, &mocks.CallRepositoryMock{}, &mocks.ProjectRepositoryMock{}, &mocks.TemplateRepositoryMock{}, logrus.New())

	result, err := svc.GenerateReport(context.Background(), uuid.New(), &report.GenerateRequest{Transcript: "we walked the site"})
	require.NoError(t, err)
	require.Equal(t, "<html><body>report</body></html>", result.HTML)
}

func TestReportService_GenerateReportFromCallPersistsResult(t *testing.T) {
	ownerID := uuid.New()
	proj := &project.Project{ID: uuid.New(), OwnerID: ownerID, Name: "Riverside House", ClientName: "Acme"}
	visit := &call.Call{ID: uuid.New(), OwnerID: ownerID, ProjectID: proj.ID, Title: "Framing check", Transcript: "framing looks good", Status: call.StatusTranscribed}

	var updated *call.Call
	callRepo := &mocks.CallRepositoryMock{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*call.Call, error) { return visit, nil },
		UpdateFn:  func(ctx context.Context, c *call.Call) error { updated = c; return nil },
	}
	projectRepo := &mocks.ProjectRepositoryMock{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*project.Project, error) { return proj, nil },
	}
	var gotPrompt string
	ai := &mocks.AIClientMock{
		CompleteFn: func(ctx context.Context, system, prompt string) (string, error) {
			gotPrompt = prompt
			return "<html>done</html>", nil
		},
	}
	svc := services.NewReportService(ai, callRepo, projectRepo, &mocks.TemplateRepositoryMock{}, logrus.New())

	result, err := svc.GenerateReport(context.Background(), ownerID, &report.GenerateRequest{CallID: &visit.ID})
	require.NoError(t, err)
	require.Equal(t, "<html>done</html>", result.HTML)
	require.Contains(t, gotPrompt, "Riverside House")
	require.Contains(t, gotPrompt, "framing looks good")
	require.NotNil(t, updated)
	require.Equal(t, call.StatusReported, updated.Status)
	require.Equal(t, "<html>done</html>", updated.ReportHTML)
}

func TestReportService_GenerateReportRequiresTranscript(t *testing.T) {
	svc := services.NewReportService(&mocks.AIClientMock{}, &mocks.CallRepositoryMock{}, &mocks.ProjectRepositoryMock{}, &mocks.TemplateRepositoryMock{}, logrus.New())

	_, err := svc.GenerateReport(context.Background(), uuid.New(), &report.GenerateRequest{Transcript: "   "})
	require.Error(t, err)
}

func TestReportService_GenerateReportPropagatesUpstreamFailure(t *testing.T) {
	ai := &mocks.AIClientMock{
		CompleteFn: func(ctx context.Context, system, prompt string) (string, error) {
			return "", fmt.Errorf("upstream 500")
		},
	}
	svc := services.NewReportService(ai, &mocks.CallRepositoryMock{}, &mocks.ProjectRepositoryMock{}, &mocks.TemplateRepositoryMock{}, logrus.New())

	_, err := svc.GenerateReport(context.Background(), uuid.New(), &report.GenerateRequest{Transcript: "notes"})
	require.Error(t, err)
}

func TestReportService_RefineUsesStoredReport(t *testing.T) {
	ownerID := uuid.New()
	visit := &call.Call{ID: uuid.New(), OwnerID: ownerID, ReportHTML: "<html>v1</html>", Status: call.StatusReported}

	var updated *call.Call
	callRepo := &mocks.CallRepositoryMock{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*call.Call, error) { return visit, nil },
		UpdateFn:  func(ctx context.Context, c *call.Call) error { updated = c; return nil },
	}
	ai := &mocks.AIClientMock{
		CompleteFn: func(ctx context.Context, system, prompt string) (string, error) {
			require.Contains(t, prompt, "<html>v1</html>")
			require.Contains(t, prompt, "add a summary")
			return "<html>v2</html>", nil
		},
	}
	svc := services.NewReportService(ai, callRepo, &mocks.ProjectRepositoryMock{}, &mocks.TemplateRepositoryMock{}, logrus.New())

	result, err := svc.RefineReport(context.Background(), ownerID, &report.RefineRequest{CallID: &visit.ID, Instructions: "add a summary"})
	require.NoError(t, err)
	require.Equal(t, "<html>v2</html>", result.HTML)
	require.NotNil(t, updated)
	require.Equal(t, "<html>v2</html>", updated.ReportHTML)
}

func TestReportService_GenerateTemplateSaveFlag(t *testing.T) {
	ownerID := uuid.New()
	var saved *template.Template
	templateRepo := &mocks.TemplateRepositoryMock{
		CreateFn: func(ctx context.Context, tpl *template.Template) error { saved = tpl; return nil },
	}
	ai := &mocks.AIClientMock{
		CompleteFn: func(ctx context.Context, system, prompt string) (string, error) {
			return "```\n<html>template</html>\n```", nil
		},
	}
	svc := services.NewReportService(ai, &mocks.CallRepositoryMock{}, &mocks.ProjectRepositoryMock{}, templateRepo, logrus.New())

	tpl, err := svc.GenerateTemplate(context.Background(), ownerID, &report.GenerateTemplateRequest{Description: "snag list layout", Save: false})
	require.NoError(t, err)
	require.Equal(t, "<html>template</html>", tpl.ContentHTML)
	require.Nil(t, saved)

	tpl, err = svc.GenerateTemplate(context.Background(), ownerID, &report.GenerateTemplateRequest{Description: "snag list layout", Name: "Snags", Save: true})
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.Equal(t, "Snags", saved.Name)
	require.Equal(t, ownerID, saved.OwnerID)
	require.Equal(t, tpl.ID, saved.ID)
}
