package dto

import (
	"errors"
	"net/http"
	"sort"

	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/ledger"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Error codes returned by the API. Domain codes pass through unchanged.
const (
	CodeValidation               = shared.CodeValidation
	CodeInvalidInput             = shared.CodeInvalidInput
	CodeNotFound                 = shared.CodeNotFound
	CodeAlreadyExists            = shared.CodeAlreadyExists
	CodeConflict                 = shared.CodeConflict
	CodeUnauthorized             = shared.CodeUnauthorized
	CodeForbidden                = shared.CodeForbidden
	CodeInvalidState             = shared.CodeInvalidState
	CodeInsufficientStock        = shared.CodeInsufficientStock
	CodeAllocationExceedsBalance = shared.CodeAllocationExceedsBalance

	CodeBadRequest      = "BAD_REQUEST"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeRequestTooLarge = "REQUEST_TOO_LARGE"
	CodeUnavailable     = "SERVICE_UNAVAILABLE"
	CodeInternal        = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	CodeValidation:               http.StatusUnprocessableEntity,
	CodeInvalidInput:             http.StatusBadRequest,
	CodeBadRequest:               http.StatusBadRequest,
	CodeNotFound:                 http.StatusNotFound,
	CodeAlreadyExists:            http.StatusConflict,
	CodeConflict:                 http.StatusConflict,
	CodeUnauthorized:             http.StatusUnauthorized,
	CodeTokenExpired:             http.StatusUnauthorized,
	CodeForbidden:                http.StatusForbidden,
	CodeInvalidState:             http.StatusUnprocessableEntity,
	CodeInsufficientStock:        http.StatusBadRequest,
	CodeAllocationExceedsBalance: http.StatusUnprocessableEntity,
	CodeRequestTooLarge:          http.StatusRequestEntityTooLarge,
	CodeUnavailable:              http.StatusServiceUnavailable,
	CodeInternal:                 http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// StockShortageDetail is attached to INSUFFICIENT_STOCK responses
type StockShortageDetail struct {
	StockID   string          `json:"stock_id"`
	Available decimal.Decimal `json:"available"`
	Requested decimal.Decimal `json:"requested"`
}

// AllocationDetail is attached to ALLOCATION_EXCEEDS_BALANCE responses
type AllocationDetail struct {
	DocumentType string          `json:"document_type"`
	Due          decimal.Decimal `json:"due"`
	Requested    decimal.Decimal `json:"requested"`
}

// FromError maps err to a status code and error envelope. Errors that are
// not domain errors become a 500 whose message does not leak internals.
func FromError(err error, requestID string) (int, Response) {
	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity,
			NewValidationErrorResponse("Request validation failed", requestID, validationDetails(verr.Fields))
	}

	var stockErr *inventory.InsufficientStockError
	if errors.As(err, &stockErr) {
		return GetHTTPStatus(CodeInsufficientStock), NewErrorResponseWithDetails(
			CodeInsufficientStock, stockErr.Error(), requestID,
			StockShortageDetail{
				StockID:   stockErr.StockID.String(),
				Available: stockErr.Available,
				Requested: stockErr.Requested,
			})
	}

	var allocErr *ledger.AllocationExceedsBalanceError
	if errors.As(err, &allocErr) {
		return GetHTTPStatus(CodeAllocationExceedsBalance), NewErrorResponseWithDetails(
			CodeAllocationExceedsBalance, allocErr.Error(), requestID,
			AllocationDetail{
				DocumentType: allocErr.DocumentType,
				Due:          allocErr.Due,
				Requested:    allocErr.Requested,
			})
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return GetHTTPStatus(domainErr.Code), NewErrorResponse(domainErr.Code, domainErr.Message, requestID)
	}

	return http.StatusInternalServerError,
		NewErrorResponse(CodeInternal, "An unexpected error occurred", requestID)
}

func validationDetails(fields map[string]string) []ValidationDetail {
	details := make([]ValidationDetail, 0, len(fields))
	for field, msg := range fields {
		details = append(details, ValidationDetail{Field: field, Message: msg})
	}
	sort.Slice(details, func(i, j int) bool { return details[i].Field < details[j].Field })
	return details
}
