package utils

import (
	"errors"
	"github.com/gin-gonic/gin"
	"log"
	"net/http"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceIDOf(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceIDOf(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceIDOf(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {

	var limitErr *LimitExceededError

	switch {
	case errors.As(err, &limitErr):
		c.JSON(http.StatusForbidden, APIResponse{
			Status:  "error",
			Code:    http.StatusForbidden,
			Message: limitErr.Error(),
			TraceID: traceIDOf(c),
			Data: gin.H{
				"feature": limitErr.Feature,
				"limit":   limitErr.Limit,
				"used":    limitErr.Used,
			},
		})
	case errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrJourneyNotFound),
		errors.Is(err, ErrLessonNotFound),
		errors.Is(err, ErrSubscriptionNotFound),
		errors.Is(err, ErrRecordNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrVerificationPermanent),
		errors.Is(err, ErrMalformedProviderResponse):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrVerificationTransient):
		RespondError(c, http.StatusBadGateway, "verification temporarily unavailable, please retry")
	case errors.Is(err, ErrGenerationFailed):
		log.Printf("Generation error: %v", err)
		RespondError(c, http.StatusBadGateway, "content generation failed, please retry")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
