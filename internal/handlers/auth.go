// internal/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/vms-backend/internal/i18n"
	"github.com/javajoker/vms-backend/internal/services"
	"github.com/javajoker/vms-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func invalidAuth(c *gin.Context) {
	utils.ErrorResponse(c, http.StatusMethodNotAllowed,
		i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthInvalidCredentials), nil)
}

// POST /v1/auth/api/signin/
// The success body is not wrapped in the data envelope.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidAuth(c)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		invalidAuth(c)
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse)
}

// POST /v1/auth/api/refresh/
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req services.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	refreshResponse, err := h.authService.RefreshToken(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, refreshResponse)
}
