package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"timeledger/internal/domain"
	"timeledger/internal/services"
)

func (s *Server) handleListProjects(c echo.Context) error {
	projects, err := s.services.ProjectService.ListProjects(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

func (s *Server) handleCreateProject(c echo.Context) error {
	var input services.CreateProjectInput
	if err := c.Bind(&input); err != nil {
		return badRequest(err)
	}

	project, err := s.services.ProjectService.CreateProject(c.Request().Context(), currentUserID(c), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

func (s *Server) handleUpdateProject(c echo.Context) error {
	var update domain.ProjectUpdate
	if err := c.Bind(&update); err != nil {
		return badRequest(err)
	}

	project, err := s.services.ProjectService.UpdateProject(c.Request().Context(), c.Param("id"), currentUserID(c), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

func (s *Server) handleDeleteProject(c echo.Context) error {
	if err := s.services.ProjectService.DeleteProject(c.Request().Context(), c.Param("id"), currentUserID(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleStartTimer(c echo.Context) error {
	project, err := s.services.ProjectService.StartTimer(c.Request().Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

func (s *Server) handleStopTimer(c echo.Context) error {
	result, err := s.services.ProjectService.StopTimer(c.Request().Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleCurrentTimer(c echo.Context) error {
	snapshot, err := s.services.ProjectService.CurrentTimer(c.Request().Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshot)
}

func (s *Server) handleWarnings(c echo.Context) error {
	warnings, err := s.services.WarningService.GetWarnings(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, warnings)
}
