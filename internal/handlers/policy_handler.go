package handlers

import (
	"log/slog"
	"net/http"

	"ecoinsure/internal/apiutil"
	"ecoinsure/internal/models"
	"ecoinsure/internal/services"

	"github.com/gofiber/fiber/v3"
)

type PolicyHandler struct {
	policyService *services.PolicyService
}

func NewPolicyHandler(policyService *services.PolicyService) *PolicyHandler {
	return &PolicyHandler{policyService: policyService}
}

func (h *PolicyHandler) Register(app *fiber.App) {
	group := app.Group(basePath)

	group.Get("/products", h.GetProducts) // GET /products

	policyGroup := group.Group("/policies")
	policyGroup.Post("/assess", h.AssessRisk)            // POST  /policies/assess
	policyGroup.Post("/", h.BindPolicy)                  // POST  /policies
	policyGroup.Get("/", h.ListPolicies)                 // GET   /policies?companyName=
	policyGroup.Get("/history", h.PolicyHistory)         // GET   /policies/history?companyName=
	policyGroup.Get("/:id", h.GetPolicy)                 // GET   /policies/:id
	policyGroup.Patch("/:id/status", h.TransitionPolicy) // PATCH /policies/:id/status
}

// GetProducts returns the product catalog.
func (h *PolicyHandler) GetProducts(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(h.policyService.Products()))
}

// AssessRisk runs the oracle risk assessment for a company/product pair.
func (h *PolicyHandler) AssessRisk(c fiber.Ctx) error {
	if !requireRole(c, models.RoleEnterprise, models.RoleInsurer) {
		return nil
	}

	var req models.AssessRiskRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}
	if req.CompanyName == "" || req.ProductID == "" {
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("MISSING_FIELDS", "companyName and productId are required"))
	}

	assessment, err := h.policyService.AssessRisk(c.Context(), req)
	if err != nil {
		slog.Error("Risk assessment failed", "company", req.CompanyName, "product_id", req.ProductID, "error", err)
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(assessment))
}

// BindPolicy turns an accepted quote into a pending_review policy.
func (h *PolicyHandler) BindPolicy(c fiber.Ctx) error {
	if !requireRole(c, models.RoleEnterprise) {
		return nil
	}

	var req models.BindPolicyRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}
	if req.CompanyName == "" || req.ProductID == "" {
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("MISSING_FIELDS", "companyName and productId are required"))
	}

	policy, err := h.policyService.BindPolicy(c.Context(), req)
	if err != nil {
		slog.Error("Failed to bind policy", "company", req.CompanyName, "product_id", req.ProductID, "error", err)
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(apiutil.CreateSuccessResponse(policy))
}

// ListPolicies returns policies, optionally filtered by company.
func (h *PolicyHandler) ListPolicies(c fiber.Ctx) error {
	policies := h.policyService.ListPolicies(c.Query("companyName"))
	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(map[string]any{
		"policies": policies,
		"count":    len(policies),
	}))
}

// PolicyHistory returns the persisted policy mirror for a company, used by
// the regulator audit view.
func (h *PolicyHandler) PolicyHistory(c fiber.Ctx) error {
	companyName := c.Query("companyName")
	if companyName == "" {
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("MISSING_COMPANY", "companyName query parameter is required"))
	}

	policies, err := h.policyService.PolicyHistory(c.Context(), companyName)
	if err != nil {
		slog.Error("Failed to read policy history", "company", companyName, "error", err)
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(map[string]any{
		"policies": policies,
		"count":    len(policies),
	}))
}

// GetPolicy returns a single policy.
func (h *PolicyHandler) GetPolicy(c fiber.Ctx) error {
	policy, err := h.policyService.GetPolicy(c.Params("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(policy))
}

// TransitionPolicy applies the insurer's review decision.
func (h *PolicyHandler) TransitionPolicy(c fiber.Ctx) error {
	if !requireRole(c, models.RoleInsurer) {
		return nil
	}

	var req models.TransitionPolicyRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	policy, err := h.policyService.TransitionPolicy(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		slog.Error("Policy transition failed", "policy_id", c.Params("id"), "target", req.Status, "error", err)
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(policy))
}
