package server

import (
	"errors"
	"net/http"

	"github.com/dakshina-arts/boxoffice/internal/inquiry"
	orderdomain "github.com/dakshina-arts/boxoffice/internal/order/domain"
	paymentdomain "github.com/dakshina-arts/boxoffice/internal/payment/domain"
	"github.com/gin-gonic/gin"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if code, ok := validationErrorCode(err); ok {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{Field: "request", Code: code, Message: "invalid value"},
			},
		}
	}

	switch {
	case errors.Is(err, paymentdomain.ErrGateway):
		return http.StatusBadGateway, errorPayload{
			Type:    "gateway_error",
			Message: "payment gateway unavailable",
		}
	default:
		// Item-not-found and inconsistent-state after a captured payment land
		// here on purpose: the caller gets no success claim and no detail.
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func validationErrorCode(err error) (string, bool) {
	switch {
	case errors.Is(err, orderdomain.ErrInvalidRequest):
		return "invalid_request", true
	case errors.Is(err, orderdomain.ErrMissingPaymentDetails):
		return "missing_payment_details", true
	case errors.Is(err, orderdomain.ErrInvalidSignature),
		errors.Is(err, paymentdomain.ErrInvalidSignature):
		return "invalid_signature", true
	case errors.Is(err, inquiry.ErrInvalidInquiry):
		return "invalid_inquiry", true
	default:
		return "", false
	}
}
