package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/keypanel/key_panel_app/internal/core/ports/services"
	"github.com/keypanel/key_panel_app/internal/dto"
	"github.com/keypanel/key_panel_app/internal/middleware"
)

// walletHandler handles HTTP requests related to the caller's own wallet.
type walletHandler struct {
	walletService portssvc.WalletSvcFacade
}

// registerWalletRoutes registers routes related to the caller's wallet.
func registerWalletRoutes(rg *gin.RouterGroup, walletService portssvc.WalletSvcFacade) {
	h := &walletHandler{walletService: walletService}

	wallet := rg.Group("/wallet")
	{
		wallet.GET("", h.getBalance)
		wallet.GET("/stream", h.streamBalance)
	}
}

// getBalance godoc
// @Summary Read the caller's wallet balance
// @Description Reads the authoritative balance store, not the live cache
// @Tags wallet
// @Produce  json
// @Success 200 {object} dto.BalanceResponse
// @Security BearerAuth
// @Router /wallet [get]
func (h *walletHandler) getBalance(c *gin.Context) {
	actorID, ok := middleware.GetActorIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	balance, err := h.walletService.GetBalance(c.Request.Context(), actorID)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to read balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read wallet balance"})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{AccountID: actorID, Wallet: balance})
}

// streamBalance godoc
// @Summary Stream live wallet balance updates
// @Description Server-sent events feed of the caller's balance. Corrupt cache values are repaired transparently; the stream only ever carries clean numbers.
// @Tags wallet
// @Produce  text/event-stream
// @Success 200 {string} string "balance events"
// @Security BearerAuth
// @Router /wallet/stream [get]
func (h *walletHandler) streamBalance(c *gin.Context) {
	actorID, ok := middleware.GetActorIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// Small buffer so a slow client coalesces to the latest values instead
	// of blocking the hub's notification path.
	updates := make(chan int64, 16)
	cancel := h.walletService.WatchBalance(actorID, func(balance int64) {
		select {
		case updates <- balance:
		default:
		}
	})
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case balance := <-updates:
			c.SSEvent("balance", balance)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
