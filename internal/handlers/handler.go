// internal/handlers/handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/vms-backend/internal/i18n"
	"github.com/javajoker/vms-backend/internal/services"
	"github.com/javajoker/vms-backend/internal/utils"
)

var statusByKind = map[services.ErrorKind]int{
	services.KindNotFound:           http.StatusNotFound,
	services.KindValidation:         http.StatusBadRequest,
	services.KindConflict:           http.StatusConflict,
	services.KindInvalidCredentials: http.StatusMethodNotAllowed,
	services.KindUnauthenticated:    http.StatusUnauthorized,
	services.KindInternal:           http.StatusInternalServerError,
}

// respondError renders a service error. Unclassified errors are logged and
// answered with a generic 500.
func respondError(c *gin.Context, err error) {
	var appErr *services.AppError
	if !errors.As(err, &appErr) || appErr.Kind == services.KindInternal {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString("request_id"),
		}).Error("Request failed")
		utils.InternalErrorResponse(c)
		return
	}

	status := statusByKind[appErr.Kind]
	message := i18n.T(utils.GetLangFromContext(c), appErr.MessageKey)
	utils.ErrorResponse(c, status, message, appErr.Details)
}

// bindJSON decodes and validates the body into req, writing a 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}

	return true
}

// pathID parses a positive integer path parameter. Anything else is answered
// as a missing resource.
func pathID(c *gin.Context, name, notFoundKey string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.NotFoundResponse(c, notFoundKey)
		return 0, false
	}
	return uint(id), true
}
