package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/page"
	"github.com/labstack/echo/v4"
)

// CRUDHandler exposes a reference-data list page
type CRUDHandler[T any, D any] struct {
	sessions SessionProvider
	name     string
	pageOf   func(*page.Session) *page.CRUDPage[T, D]
}

// ExpenseTypeHandler serves the expense types page
type ExpenseTypeHandler = CRUDHandler[domain.ExpenseType, domain.ExpenseTypeDraft]

// FundHandler serves the monetary funds page
type FundHandler = CRUDHandler[domain.MonetaryFund, domain.MonetaryFundDraft]

// NewExpenseTypeHandler creates the handler for the expense types page
func NewExpenseTypeHandler(sessions SessionProvider) *ExpenseTypeHandler {
	return &ExpenseTypeHandler{
		sessions: sessions,
		name:     "expense_types",
		pageOf:   func(s *page.Session) *page.ExpenseTypesPage { return s.ExpenseTypes },
	}
}

// NewFundHandler creates the handler for the funds page
func NewFundHandler(sessions SessionProvider) *FundHandler {
	return &FundHandler{
		sessions: sessions,
		name:     "funds",
		pageOf:   func(s *page.Session) *page.FundsPage { return s.Funds },
	}
}

func (h *CRUDHandler[T, D]) pageFor(c echo.Context) *page.CRUDPage[T, D] {
	s := currentSession(c, h.sessions)
	if s == nil {
		return nil
	}
	return h.pageOf(s)
}

// GetState handles GET /
func (h *CRUDHandler[T, D]) GetState(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	return c.JSON(http.StatusOK, p.State())
}

// Load handles POST /load
func (h *CRUDHandler[T, D]) Load(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	return withState(c, func() error { return p.Load(c.Request().Context()) }, p.State)
}

// StartCreate handles POST /new
func (h *CRUDHandler[T, D]) StartCreate(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	return withState(c, p.StartCreate, p.State)
}

// StartEdit handles POST /:id/edit
func (h *CRUDHandler[T, D]) StartEdit(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	return withState(c, func() error { return p.StartEdit(id) }, p.State)
}

// SetDraft handles PUT /draft
func (h *CRUDHandler[T, D]) SetDraft(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	var draft D
	if err := c.Bind(&draft); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	return withState(c, func() error { return p.SetDraft(draft) }, p.State)
}

// Cancel handles POST /cancel
func (h *CRUDHandler[T, D]) Cancel(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	return withState(c, p.Cancel, p.State)
}

// Save handles POST /save
func (h *CRUDHandler[T, D]) Save(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	save := logged(c, h.name, "save", 0, func() error { return p.Save(c.Request().Context()) })
	return withState(c, save, p.State)
}

// DeletePrompt handles GET /:id/delete-prompt
func (h *CRUDHandler[T, D]) DeletePrompt(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	prompt, err := p.DeletePrompt(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, prompt)
}

// Delete handles DELETE /:id?confirm=<name>
func (h *CRUDHandler[T, D]) Delete(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	confirm := c.QueryParam("confirm")
	remove := logged(c, h.name, "delete", id, func() error { return p.Remove(c.Request().Context(), id, confirm) })
	return withState(c, remove, p.State)
}
