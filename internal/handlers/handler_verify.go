package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/keypanel/key_panel_app/internal/core/ports/services"
	"github.com/keypanel/key_panel_app/internal/dto"
	"github.com/keypanel/key_panel_app/internal/middleware"
	"github.com/keypanel/key_panel_app/internal/platform/config"
)

// verifyHandler handles the public key verification endpoint used by the
// desktop login client.
type verifyHandler struct {
	keyService portssvc.KeySvcFacade
}

// registerVerifyRoutes registers the public, rate-limited verification route.
func registerVerifyRoutes(r *gin.Engine, cfg *config.Config, keyService portssvc.KeySvcFacade) {
	h := &verifyHandler{keyService: keyService}

	limiterInstance, err := newVerifyLimiter(cfg)
	if err != nil {
		// A malformed rate means a broken deployment config; refuse to expose
		// the endpoint unthrottled.
		slog.Error("Invalid VERIFY_RATE_LIMIT, verify endpoint disabled", slog.String("error", err.Error()))
		return
	}

	r.GET("/api/verify", middleware.RateLimit(limiterInstance), h.verify)
	r.POST("/api/verify", middleware.RateLimit(limiterInstance), h.verify)
}

type verifyBody struct {
	Key  string `json:"key"`
	HWID string `json:"hwid"`
}

// verify godoc
// @Summary Verify a license key
// @Description Validates a key for the desktop client: status, expiry, and HWID binding. First use locks the key to the presented device.
// @Tags verify
// @Produce  json
// @Param   key query string false "License key"
// @Param   hwid query string false "Hardware ID"
// @Success 200 {object} dto.VerifyKeyResponse
// @Failure 400 {object} dto.VerifyKeyResponse "Missing key parameter"
// @Router /api/verify [get]
func (h *verifyHandler) verify(c *gin.Context) {
	key := c.Query("key")
	hwid := c.Query("hwid")

	// The desktop client sends GET with query params; older builds POST a
	// JSON body. Accept both.
	if key == "" && c.Request.Method == http.MethodPost {
		var body verifyBody
		if err := c.ShouldBindJSON(&body); err == nil {
			key, hwid = body.Key, body.HWID
		}
	}

	if key == "" {
		c.JSON(http.StatusBadRequest, dto.VerifyKeyResponse{Valid: false, Error: "Missing required parameter: key"})
		return
	}

	resp, err := h.keyService.VerifyKey(c.Request.Context(), key, hwid)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Key verification failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.VerifyKeyResponse{Valid: false, Error: "Internal server error, please try again"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
