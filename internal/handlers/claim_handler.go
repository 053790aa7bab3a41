package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"ecoinsure/internal/apiutil"
	"ecoinsure/internal/models"
	"ecoinsure/internal/services"

	"github.com/gofiber/fiber/v3"
)

type ClaimHandler struct {
	claimService *services.ClaimService
}

func NewClaimHandler(claimService *services.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

func (h *ClaimHandler) Register(app *fiber.App) {
	group := app.Group(basePath + "/claims")

	group.Post("/", h.SubmitClaim)                  // POST   /claims
	group.Get("/", h.ListClaims)                    // GET    /claims?status=
	group.Get("/:id", h.GetClaim)                   // GET    /claims/:id
	group.Patch("/:id/resolve", h.ResolveClaim)     // PATCH  /claims/:id/resolve
	group.Post("/:id/evidence", h.UploadEvidence)   // POST   /claims/:id/evidence
	group.Get("/:id/evidence", h.DownloadEvidence)  // GET    /claims/:id/evidence
	group.Delete("/:id/evidence", h.RemoveEvidence) // DELETE /claims/:id/evidence
}

// SubmitClaim runs oracle pre-review and routes the claim in one step.
func (h *ClaimHandler) SubmitClaim(c fiber.Ctx) error {
	if !requireRole(c, models.RoleEnterprise) {
		return nil
	}

	var req models.SubmitClaimRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}
	if req.PolicyID == "" {
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("MISSING_FIELDS", "policyId is required"))
	}

	claim, err := h.claimService.SubmitClaim(c.Context(), req)
	if err != nil {
		slog.Error("Claim submission failed", "policy_id", req.PolicyID, "error", err)
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(apiutil.CreateSuccessResponse(claim))
}

// ListClaims returns claims, optionally filtered by status. The insurer
// dashboard uses ?status=manual_review as its work queue.
func (h *ClaimHandler) ListClaims(c fiber.Ctx) error {
	claims := h.claimService.ListClaims(models.ClaimStatus(c.Query("status")))
	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(map[string]any{
		"claims": claims,
		"count":  len(claims),
	}))
}

// GetClaim returns a single claim.
func (h *ClaimHandler) GetClaim(c fiber.Ctx) error {
	claim, err := h.claimService.GetClaim(c.Params("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(claim))
}

// ResolveClaim finalizes a manual-review claim with the insurer's decision.
func (h *ClaimHandler) ResolveClaim(c fiber.Ctx) error {
	if !requireRole(c, models.RoleInsurer) {
		return nil
	}

	var req models.ResolveClaimRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}
	if req.Reviewer == "" {
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("MISSING_FIELDS", "reviewer is required"))
	}

	claim, err := h.claimService.ResolveManualReview(c.Context(), c.Params("id"), req)
	if err != nil {
		slog.Error("Claim resolution failed", "claim_id", c.Params("id"), "error", err)
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(claim))
}

// UploadEvidence attaches a PDF evidence document to a claim. The body is the
// raw PDF bytes.
func (h *ClaimHandler) UploadEvidence(c fiber.Ctx) error {
	if !requireRole(c, models.RoleEnterprise) {
		return nil
	}

	claim, err := h.claimService.AttachEvidence(c.Context(), c.Params("id"), c.Body())
	if err != nil {
		slog.Error("Evidence upload failed", "claim_id", c.Params("id"), "error", err)
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(claim))
}

// DownloadEvidence streams a claim's evidence PDF to the manual reviewer.
func (h *ClaimHandler) DownloadEvidence(c fiber.Ctx) error {
	if !requireRole(c, models.RoleInsurer, models.RoleRegulator) {
		return nil
	}

	doc, err := h.claimService.EvidenceDocument(c.Context(), c.Params("id"))
	if err != nil {
		slog.Error("Evidence download failed", "claim_id", c.Params("id"), "error", err)
		return writeServiceError(c, err)
	}
	defer doc.Close()

	data, err := io.ReadAll(doc)
	if err != nil {
		slog.Error("Evidence read failed", "claim_id", c.Params("id"), "error", err)
		return c.Status(http.StatusBadGateway).JSON(
			apiutil.CreateErrorResponse("STORAGE_READ_FAILED", "Failed to read evidence document"))
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Status(http.StatusOK).Send(data)
}

// RemoveEvidence deletes a claim's evidence document.
func (h *ClaimHandler) RemoveEvidence(c fiber.Ctx) error {
	if !requireRole(c, models.RoleEnterprise) {
		return nil
	}

	claim, err := h.claimService.RemoveEvidence(c.Context(), c.Params("id"))
	if err != nil {
		slog.Error("Evidence removal failed", "claim_id", c.Params("id"), "error", err)
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(claim))
}
