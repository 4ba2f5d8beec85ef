// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/vms-backend/internal/i18n"
)

type APIResponse struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

type APIError struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func MessageResponse(c *gin.Context, statusCode int, data interface{}, messageKey string) {
	c.JSON(statusCode, APIResponse{
		Data:    data,
		Message: i18n.T(GetLangFromContext(c), messageKey),
	})
}

func SuccessResponse(c *gin.Context, data interface{}) {
	MessageResponse(c, http.StatusOK, data, i18n.KeySuccess)
}

func CreatedResponse(c *gin.Context, data interface{}, messageKey string) {
	MessageResponse(c, http.StatusCreated, data, messageKey)
}

func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func ErrorResponse(c *gin.Context, statusCode int, message string, details interface{}) {
	c.JSON(statusCode, APIError{
		Message: message,
		Code:    statusCode,
		Details: details,
	})
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyValidationBody)
	}
	ErrorResponse(c, http.StatusBadRequest, message, details)
}

func UnauthorizedResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusUnauthorized, i18n.T(GetLangFromContext(c), i18n.KeyAuthRequired), nil)
}

func NotFoundResponse(c *gin.Context, messageKey string) {
	ErrorResponse(c, http.StatusNotFound, i18n.T(GetLangFromContext(c), messageKey), nil)
}

func InternalErrorResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusInternalServerError, i18n.T(GetLangFromContext(c), i18n.KeyInternalError), nil)
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	message := i18n.T(GetLangFromContext(c), i18n.KeyValidationInvalid, "input")
	ErrorResponse(c, http.StatusBadRequest, message, errors)
}

func PaginatedResponse(c *gin.Context, result PaginationResult) {
	SetPaginationHeaders(c, result)
	SuccessResponse(c, result.Data)
}

func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get("lang"); exists {
		if langStr, ok := lang.(string); ok {
			return langStr
		}
	}
	return i18n.DefaultLang
}

func GetAccountIDFromContext(c *gin.Context) (uint, bool) {
	if accountID, exists := c.Get("account_id"); exists {
		if id, ok := accountID.(uint); ok {
			return id, true
		}
	}
	return 0, false
}
