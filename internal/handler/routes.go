package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers groups every page handler served under /api/v1/pages
type Handlers struct {
	ExpenseTypes *ExpenseTypeHandler
	Funds        *FundHandler
	Budgets      *BudgetHandler
	Deposits     *DepositHandler
	Expenses     *ExpenseHandler
	Reports      *ReportHandler
	WebSocket    *WebSocketHandler
}

// NewHandlers builds every page handler on top of sessions
func NewHandlers(sessions SessionProvider, ws *WebSocketHandler) *Handlers {
	return &Handlers{
		ExpenseTypes: NewExpenseTypeHandler(sessions),
		Funds:        NewFundHandler(sessions),
		Budgets:      NewBudgetHandler(sessions),
		Deposits:     NewDepositHandler(sessions),
		Expenses:     NewExpenseHandler(sessions),
		Reports:      NewReportHandler(sessions),
		WebSocket:    ws,
	}
}

// RegisterRoutes sets up the page routes. pageMiddleware runs on every page
// route, in order; authenticate, when not nil, runs after it on everything
// except the websocket, which checks its own token.
func RegisterRoutes(e *echo.Echo, h *Handlers, authenticate echo.MiddlewareFunc, pageMiddleware ...echo.MiddlewareFunc) {
	pages := e.Group("/api/v1/pages", pageMiddleware...)

	if h.WebSocket != nil {
		pages.GET("/ws", h.WebSocket.HandleWS)
	}

	gated := pages.Group("")
	if authenticate != nil {
		gated.Use(authenticate)
	}

	expenseTypes := gated.Group("/expense-types")
	expenseTypes.GET("", h.ExpenseTypes.GetState)
	expenseTypes.POST("/load", h.ExpenseTypes.Load)
	expenseTypes.POST("/new", h.ExpenseTypes.StartCreate)
	expenseTypes.POST("/:id/edit", h.ExpenseTypes.StartEdit)
	expenseTypes.PUT("/draft", h.ExpenseTypes.SetDraft)
	expenseTypes.POST("/cancel", h.ExpenseTypes.Cancel)
	expenseTypes.POST("/save", h.ExpenseTypes.Save)
	expenseTypes.GET("/:id/delete-prompt", h.ExpenseTypes.DeletePrompt)
	expenseTypes.DELETE("/:id", h.ExpenseTypes.Delete)

	funds := gated.Group("/funds")
	funds.GET("", h.Funds.GetState)
	funds.POST("/load", h.Funds.Load)
	funds.POST("/new", h.Funds.StartCreate)
	funds.POST("/:id/edit", h.Funds.StartEdit)
	funds.PUT("/draft", h.Funds.SetDraft)
	funds.POST("/cancel", h.Funds.Cancel)
	funds.POST("/save", h.Funds.Save)
	funds.GET("/:id/delete-prompt", h.Funds.DeletePrompt)
	funds.DELETE("/:id", h.Funds.Delete)

	budgets := gated.Group("/budgets")
	budgets.GET("", h.Budgets.GetState)
	budgets.POST("/load", h.Budgets.Load)
	budgets.PUT("/filter", h.Budgets.SetFilter)
	budgets.POST("/new", h.Budgets.StartNew)
	budgets.PUT("/draft", h.Budgets.SetDraft)
	budgets.POST("/save", h.Budgets.Save)

	deposits := gated.Group("/deposits")
	deposits.GET("", h.Deposits.GetState)
	deposits.POST("/load", h.Deposits.Load)
	deposits.PUT("/draft", h.Deposits.SetDraft)
	deposits.POST("/save", h.Deposits.Save)

	expenses := gated.Group("/expenses")
	expenses.GET("", h.Expenses.GetState)
	expenses.POST("/load", h.Expenses.Load)
	expenses.PUT("/draft", h.Expenses.SetDraft)
	expenses.POST("/lines", h.Expenses.AddLine)
	expenses.DELETE("/lines/:index", h.Expenses.RemoveLine)
	expenses.POST("/save", h.Expenses.Save)
	expenses.POST("/reset", h.Expenses.Reset)

	movements := gated.Group("/reports/movements")
	movements.GET("", h.Reports.GetMovements)
	movements.PUT("/filter", h.Reports.SetMovementsFilter)
	movements.POST("/load", h.Reports.LoadMovements)

	comparison := gated.Group("/reports/comparison")
	comparison.GET("", h.Reports.GetComparison)
	comparison.PUT("/filter", h.Reports.SetComparisonFilter)
	comparison.POST("/load", h.Reports.LoadComparison)
}

// RegisterHealth adds the liveness probe
func RegisterHealth(e *echo.Echo) {
	e.GET("/health", Health)
}

// Health handles GET /health
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
