package constants

import "net/http"

// CodedError is an error that carries the HTTP status it should surface as.
type CodedError struct {
	code int
	msg  string
}

func NewCodedError(code int, msg string) *CodedError {
	return &CodedError{code: code, msg: msg}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound = NewCodedError(http.StatusNotFound, "record not found")

	ErrNoParticipants         = NewCodedError(http.StatusUnprocessableEntity, "no participants in roster")
	ErrNoDoseRows             = NewCodedError(http.StatusUnprocessableEntity, "dose file has no usable rows")
	ErrMissingDosimeterColumn = NewCodedError(http.StatusUnprocessableEntity, "missing dosimeter column")
	ErrNoMatches              = NewCodedError(http.StatusUnprocessableEntity, "no roster matches for dosimeter readings")
	ErrEmptyHistory           = NewCodedError(http.StatusUnprocessableEntity, "report history is empty")

	ErrMissingFile = NewCodedError(http.StatusBadRequest, "missing dose file")
)
