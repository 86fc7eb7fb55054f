package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fanta-auction/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "fanta-auction"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
	Details any               `json:"details,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type budgetErrorDetails struct {
	Needed    int64 `json:"needed"`
	Remaining int64 `json:"remaining"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
	Details    any
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(err)
	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: err.Error(),
			Status:  mapped.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  mapped.Reason,
					Message: err.Error(),
				},
			},
			Details: mapped.Details,
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	const msg = "internal server error"

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  "INTERNAL",
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  "internalError",
					Message: msg,
				},
			},
		},
	})
}

func mapError(err error) mappedError {
	var budgetErr *usecase.BudgetError

	switch {
	case errors.As(err, &budgetErr):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "insufficientBudget",
			Status:     "FAILED_PRECONDITION",
			Details:    budgetErrorDetails{Needed: budgetErr.Needed, Remaining: budgetErr.Remaining},
		}
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "invalidInput",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, usecase.ErrUnknownTeam):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "unknownTeam",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, usecase.ErrPlayerNotAvailable):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "playerNotAvailable",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, usecase.ErrAuctionAlreadyActive):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "auctionAlreadyActive",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, usecase.ErrAuctionNotActive):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "auctionNotActive",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, usecase.ErrNotAdmin):
		return mappedError{
			HTTPStatus: http.StatusForbidden,
			Reason:     "notAdmin",
			Status:     "PERMISSION_DENIED",
		}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{
			HTTPStatus: http.StatusNotFound,
			Reason:     "notFound",
			Status:     "NOT_FOUND",
		}
	default:
		return mappedError{
			HTTPStatus: http.StatusInternalServerError,
			Reason:     "internalError",
			Status:     "INTERNAL",
		}
	}
}
