package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	AdapterErrorBadInput          = "ADAPTER_BAD_INPUT"
	AdapterErrorAlreadyRegistered = "ADAPTER_POOL_ALREADY_REGISTERED"
	AdapterErrorReentrantDispatch = "ADAPTER_REENTRANT_DISPATCH"
	AdapterErrorHookCallFailed    = "ADAPTER_HOOK_CALL_FAILED"
	AdapterErrorProtocolViolation = "ADAPTER_HOOK_PROTOCOL_VIOLATION"
	AdapterErrorDeltaOverflow     = "ADAPTER_DELTA_OVERFLOW"
	AdapterErrorFeeOutOfRange     = "ADAPTER_FEE_OUT_OF_RANGE"
	AdapterErrorGovernanceOnly    = "ADAPTER_GOVERNANCE_REQUIRED"
	AdapterErrorInternal          = "ADAPTER_INTERNAL_ERROR"
)

func adapterErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureAdapterErrorEnvelope(richErr)
	}

	switch {
	case errors.Is(err, ErrPoolAlreadyRegistered):
		return newAdapterError(err, goerrors.CategoryConflict, AdapterErrorAlreadyRegistered)
	case errors.Is(err, ErrReentrantDispatch):
		return newAdapterError(err, goerrors.CategoryConflict, AdapterErrorReentrantDispatch)
	case errors.Is(err, ErrUnexpectedAck):
		return newAdapterError(err, goerrors.CategoryOperation, AdapterErrorProtocolViolation)
	case errors.Is(err, ErrHookCallFailed):
		return newAdapterError(err, goerrors.CategoryOperation, AdapterErrorHookCallFailed)
	case errors.Is(err, ErrDeltaOverflow):
		return newAdapterError(err, goerrors.CategoryOperation, AdapterErrorDeltaOverflow)
	case errors.Is(err, ErrFeeOutOfRange):
		return newAdapterError(err, goerrors.CategoryValidation, AdapterErrorFeeOutOfRange)
	case errors.Is(err, ErrGovernanceRequired):
		return newAdapterError(err, goerrors.CategoryAuthz, AdapterErrorGovernanceOnly)
	case errors.Is(err, ErrHookAddressZero),
		errors.Is(err, ErrHookNil),
		errors.Is(err, ErrInvalidPermissions),
		errors.Is(err, ErrPoolKeyInvalid):
		return newAdapterError(err, goerrors.CategoryBadInput, AdapterErrorBadInput)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return newAdapterError(err, goerrors.CategoryBadInput, AdapterErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureAdapterErrorEnvelope(mapped)
}

// newAdapterError wraps the source error so errors.Is still reaches the
// sentinel through the envelope.
func newAdapterError(err error, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureAdapterErrorEnvelope(
		goerrors.Wrap(err, category, err.Error()).
			WithTextCode(textCode),
	)
}

func ensureAdapterErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = adapterHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultAdapterTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultAdapterTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return AdapterErrorBadInput
	case goerrors.CategoryConflict:
		return AdapterErrorAlreadyRegistered
	case goerrors.CategoryOperation:
		return AdapterErrorHookCallFailed
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return AdapterErrorGovernanceOnly
	default:
		return AdapterErrorInternal
	}
}

func adapterHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
