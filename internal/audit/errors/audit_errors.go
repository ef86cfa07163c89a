package auditerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrEntryNotFound = apperror.New(
		apperror.CodeNotFound,
		"audit entry not found",
		http.StatusNotFound,
	)
	ErrInvalidEntryID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid audit entry id",
		http.StatusBadRequest,
	)
)
