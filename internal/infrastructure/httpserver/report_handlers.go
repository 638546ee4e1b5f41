package httpserver

import (
	"net/http"
	"strings"

	"github.com/archstack/fieldreport/internal/core/domain/credit"
	"github.com/archstack/fieldreport/internal/core/domain/report"
	"github.com/archstack/fieldreport/internal/infrastructure/httpserver/helpers"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// transcribeAudio proxies an uploaded audio file to the transcription API.
// The gate already debited the operation's cost; a failure from here on is
// not refunded.
func (s *Server) transcribeAudio(c echo.Context) error {
	ownerID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "audio file is required")
	}

	var callID *uuid.UUID
	if v := c.FormValue("call_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid call_id")
		}
		callID = &id
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read audio file")
	}
	defer src.Close()

	result, err := s.reportSvc.Transcribe(c.Request().Context(), ownerID, callID, fileHeader.Filename, src)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, "transcription failed")
	}

	s.recordUsage(c, ownerID, credit.OpTranscription, s.costs.Transcription)
	return c.JSON(http.StatusOK, result)
}

func (s *Server) generateReport(c echo.Context) error {
	ownerID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req report.GenerateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.CallID == nil && req.Transcript == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "call_id or transcript is required")
	}

	result, err := s.reportSvc.GenerateReport(c.Request().Context(), ownerID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, "report generation failed")
	}

	s.recordUsage(c, ownerID, credit.OpReportGeneration, s.costs.Report)
	return c.JSON(http.StatusOK, result)
}

func (s *Server) refineReport(c echo.Context) error {
	ownerID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req report.RefineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Instructions == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "instructions are required")
	}
	if req.CallID == nil && req.ReportHTML == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "call_id or report_html is required")
	}

	result, err := s.reportSvc.RefineReport(c.Request().Context(), ownerID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, "report refinement failed")
	}

	s.recordUsage(c, ownerID, credit.OpReportRefine, s.costs.Refine)
	return c.JSON(http.StatusOK, result)
}

func (s *Server) generateTemplate(c echo.Context) error {
	ownerID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req report.GenerateTemplateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "description is required")
	}

	t, err := s.reportSvc.GenerateTemplate(c.Request().Context(), ownerID, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "template generation failed")
	}

	s.recordUsage(c, ownerID, credit.OpTemplateGeneration, s.costs.Template)
	return c.JSON(http.StatusOK, t)
}

// shareReport emails a report document to a recipient. Sharing is not
// metered; it consumes no credits.
func (s *Server) shareReport(c echo.Context) error {
	if _, err := helpers.GetUserIDFromContext(c); err != nil {
		return err
	}

	var req report.ShareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.To == "" || req.ReportHTML == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "to and report_html are required")
	}
	if req.Subject == "" {
		req.Subject = "Site visit report"
	}

	if err := s.emailSvc.SendReport(req.To, req.Subject, req.ReportHTML); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to send report")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "report sent"})
}

// recordUsage appends a usage log entry after a successful metered
// operation. Logging failures never fail the request.
func (s *Server) recordUsage(c echo.Context, userID uuid.UUID, op credit.Operation, cost int) {
	if err := s.creditSvc.RecordUsage(c.Request().Context(), userID, op, cost); err != nil && s.logger != nil {
		s.logger.WithError(err).WithField("operation", op).Warn("failed to record usage entry")
	}
}
