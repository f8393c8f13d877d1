package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/page"
	"github.com/labstack/echo/v4"
)

// ReportHandler serves the movements and budget comparison reports
type ReportHandler struct {
	sessions SessionProvider
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(sessions SessionProvider) *ReportHandler {
	return &ReportHandler{sessions: sessions}
}

// GetMovements handles GET /reports/movements
func (h *ReportHandler) GetMovements(c echo.Context) error {
	s := currentSession(c, h.sessions)
	if s == nil {
		return sessionRequired(c)
	}
	return c.JSON(http.StatusOK, s.Movements.State())
}

// SetMovementsFilter stores the range without loading it. An invalid range
// is kept and answered with 400.
func (h *ReportHandler) SetMovementsFilter(c echo.Context) error {
	s := currentSession(c, h.sessions)
	if s == nil {
		return sessionRequired(c)
	}
	var filter domain.DateRange
	if err := c.Bind(&filter); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	return withState(c, func() error { return s.Movements.SetFilter(filter) }, s.Movements.State)
}

// LoadMovements handles POST /reports/movements/load
func (h *ReportHandler) LoadMovements(c echo.Context) error {
	s := currentSession(c, h.sessions)
	if s == nil {
		return sessionRequired(c)
	}
	return withState(c, func() error { return s.Movements.Load(c.Request().Context()) }, s.Movements.State)
}

// GetComparison handles GET /reports/comparison
func (h *ReportHandler) GetComparison(c echo.Context) error {
	s := currentSession(c, h.sessions)
	if s == nil {
		return sessionRequired(c)
	}
	return c.JSON(http.StatusOK, s.Comparison.State())
}

// SetComparisonFilter handles PUT /reports/comparison/filter
func (h *ReportHandler) SetComparisonFilter(c echo.Context) error {
	s := currentSession(c, h.sessions)
	if s == nil {
		return sessionRequired(c)
	}
	var filter page.ComparisonFilter
	if err := c.Bind(&filter); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	return withState(c, func() error { return s.Comparison.SetFilter(filter) }, s.Comparison.State)
}

// LoadComparison handles POST /reports/comparison/load
func (h *ReportHandler) LoadComparison(c echo.Context) error {
	s := currentSession(c, h.sessions)
	if s == nil {
		return sessionRequired(c)
	}
	return withState(c, func() error { return s.Comparison.Load(c.Request().Context()) }, s.Comparison.State)
}
