package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/keypanel/key_panel_app/internal/apperrors"
	portssvc "github.com/keypanel/key_panel_app/internal/core/ports/services"
	"github.com/keypanel/key_panel_app/internal/dto"
	"github.com/keypanel/key_panel_app/internal/middleware"
	"github.com/keypanel/key_panel_app/internal/platform/config"
)

// keyHandler handles HTTP requests related to license keys.
type keyHandler struct {
	keyService portssvc.KeySvcFacade
	cfg        *config.Config
}

// registerKeyRoutes registers routes related to license keys.
func registerKeyRoutes(rg *gin.RouterGroup, cfg *config.Config, keyService portssvc.KeySvcFacade) {
	h := &keyHandler{keyService: keyService, cfg: cfg}

	keys := rg.Group("/keys")
	{
		keys.POST("", h.generateKeys)
		keys.GET("", h.listKeys)
		keys.POST("/:id/revoke", h.revokeKey)
		keys.DELETE("/:id", h.deleteKey)
	}
}

// generateKeys godoc
// @Summary Generate license keys
// @Description Creates N keys of the requested type, debiting N*unitCost credits from the caller's wallet
// @Tags keys
// @Accept  json
// @Produce  json
// @Param   request body dto.GenerateKeysRequest true "Key type and quantity"
// @Success 201 {object} dto.GenerateKeysResponse
// @Failure 400 {object} map[string]string "Invalid type or quantity"
// @Failure 402 {object} map[string]string "Insufficient wallet balance"
// @Security BearerAuth
// @Router /keys [post]
func (h *keyHandler) generateKeys(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GenerateKeysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	actorID, ok := middleware.GetActorIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.keyService.GenerateKeys(c.Request.Context(), actorID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInsufficientBalance):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient wallet balance"})
		case errors.Is(err, apperrors.ErrInvalidAmount), errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Key generation failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate keys"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// listKeys godoc
// @Summary List license keys
// @Description Owners see all recent keys; other roles see keys they issued
// @Tags keys
// @Produce  json
// @Param   limit query int false "Maximum number of keys"
// @Success 200 {array} dto.KeyResponse
// @Security BearerAuth
// @Router /keys [get]
func (h *keyHandler) listKeys(c *gin.Context) {
	actorID, ok := middleware.GetActorIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit := h.cfg.KeyListLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	keys, err := h.keyService.ListKeys(c.Request.Context(), actorID, limit)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list keys", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list keys"})
		return
	}

	c.JSON(http.StatusOK, dto.ToKeyResponses(keys))
}

// revokeKey godoc
// @Summary Revoke a license key
// @Tags keys
// @Param   id path string true "Key ID"
// @Success 204 "Revoked"
// @Failure 403 {object} map[string]string "Key belongs to another reseller"
// @Failure 404 {object} map[string]string "Key not found"
// @Security BearerAuth
// @Router /keys/{id}/revoke [post]
func (h *keyHandler) revokeKey(c *gin.Context) {
	h.mutateKey(c, h.keyService.RevokeKey)
}

// deleteKey godoc
// @Summary Permanently delete a license key
// @Tags keys
// @Param   id path string true "Key ID"
// @Success 204 "Deleted"
// @Failure 403 {object} map[string]string "Key belongs to another reseller"
// @Failure 404 {object} map[string]string "Key not found"
// @Security BearerAuth
// @Router /keys/{id} [delete]
func (h *keyHandler) deleteKey(c *gin.Context) {
	h.mutateKey(c, h.keyService.DeleteKey)
}

func (h *keyHandler) mutateKey(c *gin.Context, op func(ctx context.Context, actorID, keyID string) error) {
	actorID, ok := middleware.GetActorIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := op(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Key not found"})
		default:
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Key mutation failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update key"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
