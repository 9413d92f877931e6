package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrWorkerPanic    = fmt.Errorf("worker panic")
	ErrRoomNotFound   = fmt.Errorf("room not found")
	ErrNameTaken      = fmt.Errorf("username already taken")
	ErrNameLength     = fmt.Errorf("username must be between 2 and 20 characters")
	ErrEmptyField     = fmt.Errorf("missing required field")
	ErrContentTooLong = fmt.Errorf("message content exceeds the maximum length")
)

// HTTPStatus maps the domain error taxonomy to an HTTP status class.
// Unknown errors are treated as internal failures.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNameLength),
		errors.Is(err, ErrEmptyField),
		errors.Is(err, ErrContentTooLong):
		return http.StatusBadRequest
	case errors.Is(err, ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNameTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
