package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "granaia/internal/errors"
	"granaia/internal/logger"
	"granaia/internal/middleware"
	"granaia/internal/pagination"
)

// respond writes the standard success envelope.
func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// respondList writes the paginated success envelope.
func respondList(c *gin.Context, message string, data interface{}, meta pagination.Meta) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data":    data,
		"meta":    meta,
	})
}

// respondError writes a consistent JSON error envelope. AppErrors use their
// status, message and details; 5xx details are suppressed unless Gin runs in
// debug mode. Anything else is logged and rendered as a generic 500.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		details := appErr.Details
		if appErr.StatusCode >= http.StatusInternalServerError {
			if gin.IsDebugging() && appErr.Internal != nil {
				details = appErr.Internal.Error()
			} else {
				details = nil
			}
		}
		c.JSON(appErr.StatusCode, gin.H{
			"success": false,
			"message": appErr.Message,
			"details": details,
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	var details interface{}
	if gin.IsDebugging() {
		details = err.Error()
	}
	c.JSON(apperrors.ErrInternal.StatusCode, gin.H{
		"success": false,
		"message": apperrors.ErrInternal.Message,
		"details": details,
	})
}

// FieldError is one entry of a 422 validation details list.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// bindError converts a binding failure into an AppError. Validator failures
// are collected per-field into a 422; malformed payloads become a 400.
func bindError(err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{
				Field:   strings.ToLower(fe.Field()),
				Message: validationMessage(fe),
				Type:    fe.Tag(),
			})
		}
		return apperrors.WithDetails(apperrors.ErrValidation, details)
	}
	return apperrors.WithMessage(apperrors.ErrBadRequest, err.Error())
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório"
	case "email":
		return "Email inválido"
	case "gt":
		return "Valor deve ser maior que " + fe.Param()
	case "min":
		return "Valor abaixo do mínimo (" + fe.Param() + ")"
	case "max":
		return "Valor acima do máximo (" + fe.Param() + ")"
	case "categoria_financeira":
		return "Categoria inválida"
	case "tipo_premium":
		return "Tipo de premium inválido"
	}
	return "Falha na validação '" + fe.Tag() + "'"
}

// currentUserID extracts the authenticated user id set by the auth
// middleware.
func currentUserID(c *gin.Context) (string, error) {
	id := c.GetString(middleware.CtxUserID)
	if id == "" {
		return "", apperrors.ErrUnauthorized
	}
	return id, nil
}

// currentRemotejid extracts the authenticated user's external identifier set
// by the auth middleware.
func currentRemotejid(c *gin.Context) (string, error) {
	remotejid := c.GetString(middleware.CtxRemotejid)
	if remotejid == "" {
		return "", apperrors.ErrUnauthorized
	}
	return remotejid, nil
}

// parsePathUUID validates a UUID path parameter.
func parsePathUUID(c *gin.Context, param string) (string, error) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrBadRequest, "ID inválido: "+raw)
	}
	return id.String(), nil
}

// timeLayouts are the accepted event-date formats, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// parseFlexibleTime parses a date string in any of the accepted formats.
func parseFlexibleTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("formato de data inválido: %s", value)
}

// queryTime parses an optional date query parameter.
func queryTime(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := parseFlexibleTime(raw)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrBadRequest, err.Error())
	}
	return &t, nil
}

// queryDecimal parses an optional decimal query parameter.
func queryDecimal(c *gin.Context, name string) (*decimal.Decimal, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrBadRequest, "Valor inválido para '"+name+"': "+raw)
	}
	return &d, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrBadRequest, "Valor inválido para '"+name+"': "+raw)
	}
	return &b, nil
}

// bindPage parses pagination query parameters and applies the configured
// bounds.
func bindPage(c *gin.Context, defaultSize, maxSize int) (pagination.PageRequest, error) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		return page, bindError(err)
	}
	page.Defaults(defaultSize, maxSize)
	return page, nil
}

// queryString returns an optional string query parameter.
func queryString(c *gin.Context, name string) *string {
	if raw := c.Query(name); raw != "" {
		return &raw
	}
	return nil
}
