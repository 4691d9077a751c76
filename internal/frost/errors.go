package frost

import (
	"errors"
	"fmt"
)

// ErrNoCurrentPrediction is returned when the backend has no stored prediction yet.
var ErrNoCurrentPrediction = errors.New("no current prediction")

// APIError is a non-success response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Error del servidor: %d", e.Status)
}

// FailureMessage is the text shown to the user for a failed request.
func FailureMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}
