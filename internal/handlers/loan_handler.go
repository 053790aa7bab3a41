package handlers

import (
	"log/slog"
	"net/http"

	"ecoinsure/internal/apiutil"
	"ecoinsure/internal/models"
	"ecoinsure/internal/services"

	"github.com/gofiber/fiber/v3"
)

type LoanHandler struct {
	loanService *services.LoanService
}

func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

func (h *LoanHandler) Register(app *fiber.App) {
	group := app.Group(basePath + "/loans")

	group.Post("/", h.ApplyLoan)                 // POST  /loans
	group.Get("/", h.ListLoans)                  // GET   /loans?companyName=
	group.Get("/:id", h.GetLoan)                 // GET   /loans/:id
	group.Patch("/:id/status", h.TransitionLoan) // PATCH /loans/:id/status
}

// ApplyLoan runs the green credit assessment and records a pending
// application.
func (h *LoanHandler) ApplyLoan(c fiber.Ctx) error {
	if !requireRole(c, models.RoleEnterprise) {
		return nil
	}

	var req models.ApplyLoanRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}
	if req.CompanyName == "" {
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("MISSING_FIELDS", "companyName is required"))
	}

	loan, err := h.loanService.ApplyLoan(c.Context(), req)
	if err != nil {
		slog.Error("Loan application failed", "company", req.CompanyName, "error", err)
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(apiutil.CreateSuccessResponse(loan))
}

// ListLoans returns applications, optionally filtered by company.
func (h *LoanHandler) ListLoans(c fiber.Ctx) error {
	loans := h.loanService.ListLoans(c.Query("companyName"))
	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(map[string]any{
		"loans": loans,
		"count": len(loans),
	}))
}

// GetLoan returns a single application.
func (h *LoanHandler) GetLoan(c fiber.Ctx) error {
	loan, err := h.loanService.GetLoan(c.Params("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(loan))
}

// TransitionLoan applies the bank's credit decision.
func (h *LoanHandler) TransitionLoan(c fiber.Ctx) error {
	if !requireRole(c, models.RoleBank) {
		return nil
	}

	var req models.TransitionLoanRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	loan, err := h.loanService.TransitionLoan(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		slog.Error("Loan transition failed", "loan_id", c.Params("id"), "target", req.Status, "error", err)
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(loan))
}
