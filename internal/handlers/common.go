// Package handlers wires the HTTP surface: request decoding, role gating via
// the X-User-Role header set by the gateway, and the mapping from workflow
// errors to status codes.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"ecoinsure/internal/ai/gemini"
	"ecoinsure/internal/apiutil"
	"ecoinsure/internal/engine"
	"ecoinsure/internal/models"
	"ecoinsure/internal/services"
	"ecoinsure/internal/store"

	"github.com/gofiber/fiber/v3"
)

const basePath = "/ecoinsure/api/v1"

// requireRole gates a mutating route on the caller's dashboard role. Returns
// false after writing the error response when the caller is not allowed.
func requireRole(c fiber.Ctx, allowed ...models.UserRole) bool {
	role := models.UserRole(c.Get("X-User-Role"))
	if role == "" {
		c.Status(http.StatusUnauthorized).JSON(
			apiutil.CreateErrorResponse("UNAUTHORIZED", "User role is required"))
		return false
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	c.Status(http.StatusForbidden).JSON(
		apiutil.CreateErrorResponse("FORBIDDEN", "Role "+string(role)+" may not perform this action"))
	return false
}

// writeServiceError maps workflow errors to HTTP statuses. Not-found and
// transition conflicts are caller errors; oracle failures surface as gateway
// errors so the dashboard can offer a retry.
func writeServiceError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(
			apiutil.CreateErrorResponse("NOT_FOUND", err.Error()))
	case errors.Is(err, store.ErrDuplicateID):
		return c.Status(http.StatusConflict).JSON(
			apiutil.CreateErrorResponse("DUPLICATE_ID", err.Error()))
	case errors.Is(err, engine.ErrInvalidTransition):
		return c.Status(http.StatusConflict).JSON(
			apiutil.CreateErrorResponse("INVALID_TRANSITION", err.Error()))
	case errors.Is(err, services.ErrInvalidEvidence):
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponse("INVALID_EVIDENCE", err.Error()))
	case errors.Is(err, services.ErrStorageUnavailable):
		return c.Status(http.StatusServiceUnavailable).JSON(
			apiutil.CreateErrorResponse("STORAGE_UNAVAILABLE", err.Error()))
	case errors.Is(err, services.ErrLedgerUnavailable):
		return c.Status(http.StatusServiceUnavailable).JSON(
			apiutil.CreateErrorResponse("LEDGER_UNAVAILABLE", err.Error()))
	case errors.Is(err, gemini.ErrOracleTimeout):
		return c.Status(http.StatusGatewayTimeout).JSON(
			apiutil.CreateErrorResponse("ORACLE_TIMEOUT", "Risk oracle timed out, retry the request"))
	case errors.Is(err, gemini.ErrOracleUnavailable), errors.Is(err, gemini.ErrOracleMalformed):
		return c.Status(http.StatusBadGateway).JSON(
			apiutil.CreateErrorResponse("ORACLE_FAILED", "Risk oracle could not produce a verdict"))
	default:
		slog.Error("Unhandled service error", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			apiutil.CreateErrorResponse("INTERNAL", "Internal server error"))
	}
}
