package httpserver

import (
	"net/http"
	"strings"

	"github.com/archstack/fieldreport/internal/core/domain/call"
	"github.com/archstack/fieldreport/internal/infrastructure/httpserver/helpers"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (s *Server) createCall(c echo.Context) error {
	ownerID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req call.CreateCallRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ProjectID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "project_id is required")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	visit, err := s.callSvc.CreateCall(c.Request().Context(), ownerID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, visit)
}

func (s *Server) getCall(c echo.Context) error {
	ownerID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid call ID")
	}

	visit, err := s.callSvc.GetCall(c.Request().Context(), ownerID, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return c.JSON(http.StatusOK, visit)
}

func (s *Server) listCalls(c echo.Context) error {
	ownerID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	limit, offset := parseListParams(c)
	var projectID *uuid.UUID
	if p := c.QueryParam("project_id"); p != "" {
		id, err := uuid.Parse(p)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid project_id")
		}
		projectID = &id
	}

	calls, err := s.callSvc.ListCalls(c.Request().Context(), ownerID, projectID, limit, offset)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"calls": calls, "count": len(calls), "limit": limit, "offset": offset})
}

// listProjectCalls lists site visits under a specific project path
func (s *Server) listProjectCalls(c echo.Context) error {
	ownerID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid project ID")
	}

	limit, offset := parseListParams(c)
	calls, err := s.callSvc.ListCalls(c.Request().Context(), ownerID, &projectID, limit, offset)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"calls": calls, "count": len(calls), "limit": limit, "offset": offset})
}

func (s *Server) updateCall(c echo.Context) error {
	ownerID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid call ID")
	}

	var req call.UpdateCallRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	visit, err := s.callSvc.UpdateCall(c.Request().Context(), ownerID, id, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, visit)
}

func (s *Server) deleteCall(c echo.Context) error {
	ownerID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid call ID")
	}

	if err := s.callSvc.DeleteCall(c.Request().Context(), ownerID, id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
