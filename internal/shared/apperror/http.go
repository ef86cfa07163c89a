package apperror

import (
	"errors"
	"net/http"
)

// HTTPError adalah bentuk final yang dikirim ke response writer
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP mengubah error apapun menjadi HTTPError.
// AppError dipetakan apa adanya; error lain menjadi 500 generik
// agar detail internal tidak bocor ke client.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "An unexpected error occurred",
	}
}
