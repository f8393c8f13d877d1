package handler

import (
	"net/http"
	"strconv"

	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/page"
	"github.com/labstack/echo/v4"
)

// ExpenseHandler serves the expense log page
type ExpenseHandler struct {
	sessions SessionProvider
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(sessions SessionProvider) *ExpenseHandler {
	return &ExpenseHandler{sessions: sessions}
}

func (h *ExpenseHandler) pageFor(c echo.Context) *page.ExpenseLogPage {
	if s := currentSession(c, h.sessions); s != nil {
		return s.Expenses
	}
	return nil
}

// GetState handles GET /expenses
func (h *ExpenseHandler) GetState(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	return c.JSON(http.StatusOK, p.State())
}

// Load handles POST /expenses/load
func (h *ExpenseHandler) Load(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	return withState(c, func() error { return p.Load(c.Request().Context()) }, p.State)
}

// SetDraft handles PUT /expenses/draft
func (h *ExpenseHandler) SetDraft(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	var draft domain.ExpenseDraft
	if err := c.Bind(&draft); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	return withState(c, func() error { return p.SetDraft(draft) }, p.State)
}

// AddLine handles POST /expenses/lines
func (h *ExpenseHandler) AddLine(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	return withState(c, p.AddLine, p.State)
}

// RemoveLine handles DELETE /expenses/lines/:index
func (h *ExpenseHandler) RemoveLine(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return NewValidationError(c, "Invalid index", []domain.FieldError{
			{Field: "index", Message: "Must be an integer"},
		})
	}
	return withState(c, func() error { return p.RemoveLine(index) }, p.State)
}

// Save handles POST /expenses/save and reports any budget overdrafts
func (h *ExpenseHandler) Save(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	save := logged(c, "expenses", "create", 0, func() error { return p.Save(c.Request().Context()) })
	return withState(c, save, p.State)
}

// Reset handles POST /expenses/reset
func (h *ExpenseHandler) Reset(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	return withState(c, p.Reset, p.State)
}
