// Package controllers holds the gin handlers for the storefront API.
package controllers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/Kariqs/goneer-api/guard"
	"github.com/Kariqs/goneer-api/logger"
	"github.com/Kariqs/goneer-api/middlewares"
	"github.com/Kariqs/goneer-api/models"
	"github.com/Kariqs/goneer-api/services"
	"github.com/Kariqs/goneer-api/session"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	msgInvalidInput        = "invalid input"
	msgInternalServerError = "Internal server error"
	msgSessionMissing      = "Session not found in context"
)

type Controller struct {
	Checkout  *services.Checkout
	Orders    *services.Orders
	Catalog   *services.Catalog
	Dashboard *services.Dashboard
	Cities    session.CityLookup
}

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

func statusFor(code string) int {
	switch code {
	case models.ErrInvalidCredentials.Code, models.ErrUnauthenticated.Code:
		return http.StatusUnauthorized
	case models.ErrValidation.Code, models.ErrEmptyCart.Code:
		return http.StatusBadRequest
	case models.ErrLookup.Code:
		return http.StatusUnprocessableEntity
	case models.ErrNotFound.Code:
		return http.StatusNotFound
	case models.ErrForbidden.Code:
		return http.StatusForbidden
	case models.ErrDuplicateEmail.Code, models.ErrConflict.Code, models.ErrInvalidTransition.Code, models.ErrInFlight.Code:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondWithDomainError renders err with the status of its domain code.
// Errors without a code are logged and reported as 500.
func respondWithDomainError(ctx *gin.Context, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		sendErrorResponse(ctx, http.StatusRequestTimeout, "request cancelled")
		return
	}

	var domainErr *models.DomainError
	if !errors.As(err, &domainErr) {
		logger.FromContext(ctx).Error("request failed", zap.Error(err))
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	body := gin.H{"message": err.Error(), "code": domainErr.Code}
	switch {
	case errors.Is(err, models.ErrEmptyCart):
		body["redirect"] = guard.PathCart
	case errors.Is(err, models.ErrUnauthenticated):
		body["redirect"] = guard.PathLogin
	}
	sendJSONResponse(ctx, statusFor(domainErr.Code), body)
}

// respondWithBindingError explains which fields failed validation.
func respondWithBindingError(ctx *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fieldMessage(fe))
	}
	respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, errors.New(strings.Join(fields, "; ")))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fe.Field() + " is invalid"
	}
}

func currentSession(ctx *gin.Context) (*session.Session, bool) {
	sess := middlewares.CurrentSession(ctx)
	if sess == nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgSessionMissing)
		return nil, false
	}
	return sess, true
}

// currentUser returns the signed-in user, answering 401 when there is none.
func currentUser(ctx *gin.Context) (*session.Session, models.User, bool) {
	sess, ok := currentSession(ctx)
	if !ok {
		return nil, models.User{}, false
	}
	user, ok := sess.User()
	if !ok {
		respondWithDomainError(ctx, models.ErrUnauthenticated)
		return nil, models.User{}, false
	}
	return sess, user, true
}

// paginate slices items for the page and limit query parameters.
func paginate[T any](ctx *gin.Context, items []T) ([]T, gin.H) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	if err != nil || limit < 1 {
		limit = 15
	}

	total := len(items)
	start := total
	if page-1 < total/limit+1 {
		start = min((page-1)*limit, total)
	}
	end := start + min(limit, total-start)
	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	return items[start:end], gin.H{
		"total":        total,
		"currentPage":  page,
		"limit":        limit,
		"hasPrevPage":  page > 1,
		"hasNextPage":  totalPages > page,
		"previousPage": page - 1,
		"nextPage":     page + 1,
	}
}
