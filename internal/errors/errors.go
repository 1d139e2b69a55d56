// Package errors provides the application error taxonomy. Every
// service-layer failure is an *AppError so the HTTP boundary can translate
// it to a fixed status code and response envelope without leaking internal
// details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, optional structured details,
// and an optional wrapped internal error.
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Details    interface{} `json:"details,omitempty"`
	Internal   error       `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithDetails creates a new AppError carrying structured details for the
// response body.
func WithDetails(sentinel *AppError, details interface{}) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Details:    details,
		Internal:   sentinel.Internal,
	}
}

// General errors, one per taxonomy entry.
var (
	ErrBadRequest   = &AppError{Code: "BAD_REQUEST", Message: "Requisição inválida", StatusCode: http.StatusBadRequest}
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Não autorizado", StatusCode: http.StatusUnauthorized}
	ErrForbidden    = &AppError{Code: "FORBIDDEN", Message: "Acesso proibido", StatusCode: http.StatusForbidden}
	ErrNotFound     = &AppError{Code: "NOT_FOUND", Message: "Recurso não encontrado", StatusCode: http.StatusNotFound}
	ErrConflict     = &AppError{Code: "CONFLICT", Message: "Conflito de dados", StatusCode: http.StatusConflict}
	ErrValidation   = &AppError{Code: "VALIDATION_ERROR", Message: "Erro de validação", StatusCode: http.StatusUnprocessableEntity}
	ErrDatabase     = &AppError{Code: "DATABASE_ERROR", Message: "Erro no banco de dados", StatusCode: http.StatusInternalServerError}
	ErrInternal     = &AppError{Code: "INTERNAL_ERROR", Message: "Erro interno do servidor", StatusCode: http.StatusInternalServerError}
)

// Authentication errors.
var (
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Email ou senha incorretos", StatusCode: http.StatusUnauthorized}
	ErrInvalidToken       = &AppError{Code: "INVALID_TOKEN", Message: "Não foi possível validar as credenciais", StatusCode: http.StatusUnauthorized}
)

// Premium entitlement errors.
var (
	ErrPremiumExpired      = &AppError{Code: "PREMIUM_EXPIRED", Message: "Seu plano expirou. Assine um plano para continuar usando o sistema.", StatusCode: http.StatusForbidden}
	ErrFeatureNotAvailable = &AppError{Code: "FEATURE_NOT_AVAILABLE", Message: "Seu plano não inclui acesso a esta funcionalidade. Faça upgrade para acessar.", StatusCode: http.StatusForbidden}
)

// User errors.
var (
	ErrUserNotFound       = &AppError{Code: "USER_NOT_FOUND", Message: "Usuário não encontrado", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail     = &AppError{Code: "DUPLICATE_EMAIL", Message: "Email já está cadastrado", StatusCode: http.StatusConflict}
	ErrDuplicateRemotejid = &AppError{Code: "DUPLICATE_REMOTEJID", Message: "Telefone já está cadastrado", StatusCode: http.StatusConflict}
)

// Expense and income errors.
var (
	ErrExpenseNotFound = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Gasto não encontrado", StatusCode: http.StatusNotFound}
	ErrIncomeNotFound  = &AppError{Code: "INCOME_NOT_FOUND", Message: "Receita não encontrada", StatusCode: http.StatusNotFound}
)
