package handlers

import (
	"log/slog"
	"net/http"

	"ecoinsure/internal/apiutil"
	"ecoinsure/internal/models"
	"ecoinsure/internal/services"

	"github.com/gofiber/fiber/v3"
)

type CarbonHandler struct {
	carbonService *services.CarbonService
}

func NewCarbonHandler(carbonService *services.CarbonService) *CarbonHandler {
	return &CarbonHandler{carbonService: carbonService}
}

func (h *CarbonHandler) Register(app *fiber.App) {
	group := app.Group(basePath + "/carbon")

	group.Post("/records", h.CreateRecord)        // POST /carbon/records
	group.Get("/records", h.ListRecords)          // GET  /carbon/records?companyId=
	group.Get("/records/ledger", h.LedgerHistory) // GET  /carbon/records/ledger?companyId=
	group.Delete("/records/:id", h.DeleteRecord)  // DELETE /carbon/records/:id
	group.Get("/supply-chain", h.GetSupplyChain)  // GET  /carbon/supply-chain
}

// CreateRecord registers a new emission entry for the caller's company.
func (h *CarbonHandler) CreateRecord(c fiber.Ctx) error {
	if !requireRole(c, models.RoleEnterprise) {
		return nil
	}

	var req models.CreateCarbonRecordRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	rec, err := h.carbonService.AddRecord(c.Context(), req)
	if err != nil {
		slog.Error("Failed to create carbon record", "company_id", req.CompanyID, "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("INVALID_RECORD", err.Error()))
	}

	return c.Status(http.StatusCreated).JSON(apiutil.CreateSuccessResponse(rec))
}

// ListRecords returns a company's emission records, newest first.
func (h *CarbonHandler) ListRecords(c fiber.Ctx) error {
	companyID := c.Query("companyId")
	if companyID == "" {
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("MISSING_COMPANY", "companyId query parameter is required"))
	}

	records, err := h.carbonService.ListByCompany(c.Context(), companyID)
	if err != nil {
		slog.Error("Failed to list carbon records", "company_id", companyID, "error", err)
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(map[string]any{
		"records": records,
		"count":   len(records),
	}))
}

// LedgerHistory returns the persisted emission ledger for a company, used by
// the regulator audit view.
func (h *CarbonHandler) LedgerHistory(c fiber.Ctx) error {
	companyID := c.Query("companyId")
	if companyID == "" {
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("MISSING_COMPANY", "companyId query parameter is required"))
	}

	records, err := h.carbonService.LedgerHistory(c.Context(), companyID)
	if err != nil {
		slog.Error("Failed to read carbon ledger", "company_id", companyID, "error", err)
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(map[string]any{
		"records": records,
		"count":   len(records),
	}))
}

// DeleteRecord removes an emission entry.
func (h *CarbonHandler) DeleteRecord(c fiber.Ctx) error {
	if !requireRole(c, models.RoleEnterprise) {
		return nil
	}

	if err := h.carbonService.DeleteRecord(c.Context(), c.Params("id")); err != nil {
		return writeServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(map[string]any{
		"deleted": c.Params("id"),
	}))
}

// GetSupplyChain returns the partner network with its audit grades.
func (h *CarbonHandler) GetSupplyChain(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(h.carbonService.SupplyChain()))
}
