package ports

import (
	"context"
	"io"

	"github.com/archstack/fieldreport/internal/core/domain/report"
	"github.com/archstack/fieldreport/internal/core/domain/template"
	"github.com/google/uuid"
)

// AIClient is the upstream generative API. Calls are plain request/response
// proxies with a bounded timeout; a failure here is a downstream failure,
// never retried by the caller's gate.
type AIClient interface {
	// Transcribe uploads an audio file and returns the transcription text.
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
	// Complete sends a system+user prompt pair and returns the model output.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ReportService orchestrates the metered AI operations. Credit debiting
// happens in the gate before these are invoked; each successful operation
// is appended to the usage log.
type ReportService interface {
	Transcribe(ctx context.Context, ownerID uuid.UUID, callID *uuid.UUID, filename string, audio io.Reader) (*report.Transcription, error)
	GenerateReport(ctx context.Context, ownerID uuid.UUID, req *report.GenerateRequest) (*report.Result, error)
	RefineReport(ctx context.Context, ownerID uuid.UUID, req *report.RefineRequest) (*report.Result, error)
	GenerateTemplate(ctx context.Context, ownerID uuid.UUID, req *report.GenerateTemplateRequest) (*template.Template, error)
}
