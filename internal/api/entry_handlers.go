package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"timeledger/internal/domain"
)

type hoursRequest struct {
	Hours float64 `json:"hours"`
}

type entryResponse struct {
	Success bool            `json:"success"`
	Project *domain.Project `json:"project"`
}

func (s *Server) handleListTimeEntries(c echo.Context) error {
	var filter domain.EntryFilter
	if projectID := c.QueryParam("projectId"); projectID != "" {
		filter.ProjectID = &projectID
	}

	entries, err := s.services.TimeEntryService.ListTimeEntries(c.Request().Context(), currentUserID(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) handleAddManualEntry(c echo.Context) error {
	var req hoursRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}

	result, err := s.services.TimeEntryService.AddManualEntry(c.Request().Context(), c.Param("projectId"), currentUserID(c), req.Hours)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

func (s *Server) handleUpdateTimeEntry(c echo.Context) error {
	var req hoursRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}

	result, err := s.services.TimeEntryService.UpdateEntryHours(c.Request().Context(), c.Param("id"), currentUserID(c), req.Hours)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entryResponse{Success: true, Project: result.Project})
}

func (s *Server) handleDeleteTimeEntry(c echo.Context) error {
	result, err := s.services.TimeEntryService.DeleteEntry(c.Request().Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entryResponse{Success: true, Project: result.Project})
}
