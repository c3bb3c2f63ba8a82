package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"timeledger/internal/export"
	"timeledger/internal/services"
)

func (s *Server) reportRequest(c echo.Context) (services.ReportRequest, error) {
	return services.NewReportRequest(
		c.QueryParam("type"),
		c.QueryParam("dateFilter"),
		c.QueryParam("startDate"),
		c.QueryParam("endDate"),
		s.config.Location(),
	)
}

func (s *Server) handleReport(c echo.Context) error {
	req, err := s.reportRequest(c)
	if err != nil {
		return err
	}

	report, err := s.services.ReportingService.GenerateReport(c.Request().Context(), currentUserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleExport(c echo.Context) error {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		return err
	}
	req, err := s.reportRequest(c)
	if err != nil {
		return err
	}

	report, err := s.services.ReportingService.GenerateReport(c.Request().Context(), currentUserID(c), req)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, report.Rows); err != nil {
		return err
	}

	filename := export.Filename(export.DefaultPrefix, format, time.Now().In(s.config.Location()))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, export.ContentType(format), buf.Bytes())
}
