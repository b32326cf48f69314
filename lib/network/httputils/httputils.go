package httputils

import (
	"net/http"

	"maatnet.io/maat/lib/errors"
)

// IsEventStream checks request header accept is text/event-stream
func IsEventStream(r *http.Request) bool {
	if r.Header.Get("Accept") == "text/event-stream" {
		return true
	}
	return false
}

// ErrorsToStatus maps ledger and envelope error codes to http statuses.
// Rejected requests are 4xx; anything not listed here is the node's own
// fault and stays 500.
var ErrorsToStatus = map[uint]int{
	errors.InvalidInput.Code:          http.StatusBadRequest,
	errors.ProposalNotFound.Code:      http.StatusNotFound,
	errors.ProposalInactive.Code:      http.StatusConflict,
	errors.ProposalAlreadyClosed.Code: http.StatusConflict,
	errors.DuplicateVote.Code:         http.StatusConflict,
	errors.Unauthorized.Code:          http.StatusForbidden,

	errors.InvalidOperation.Code:            http.StatusBadRequest,
	errors.UnknownOperationType.Code:        http.StatusBadRequest,
	errors.TypeOperationBodyNotMatched.Code: http.StatusBadRequest,
	errors.HashDoesNotMatch.Code:            http.StatusBadRequest,
	errors.SignatureVerificationFailed.Code: http.StatusBadRequest,
	errors.InvalidMessageVersion.Code:       http.StatusBadRequest,
	errors.MessageHasIncorrectTime.Code:     http.StatusBadRequest,
	errors.BadPublicAddress.Code:            http.StatusBadRequest,

	errors.StorageRecordDoesNotExist.Code: http.StatusNotFound,

	errors.InvalidQueryString.Code:      http.StatusBadRequest,
	errors.BadRequestParameter.Code:     http.StatusBadRequest,
	errors.PageQueryLimitMaxExceed.Code: http.StatusBadRequest,
	errors.ContentTypeNotJSON.Code:      http.StatusBadRequest,

	errors.NotImplemented.Code: http.StatusNotImplemented,
}

func StatusCode(err error) int {
	if e, ok := err.(*errors.Error); ok {
		if status, found := ErrorsToStatus[e.Code]; found {
			return status
		}
	}
	return http.StatusInternalServerError
}
