package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/microsievert/dosimetria/internal/domain"
	"github.com/microsievert/dosimetria/internal/pkg/constants"
)

func httpErrorHandler(err error, c echo.Context) {
	msg := err.Error()
	code := http.StatusInternalServerError
	for e := err; e != nil; e = errors.Unwrap(e) {
		if ce, ok := e.(*constants.CodedError); ok {
			code = ce.Code()
			break
		}
		if he, ok := e.(*echo.HTTPError); ok {
			code = he.Code
			break
		}
	}

	_ = c.JSON(code, domain.ErrorResponse{
		Message: msg,
		Code:    code,
	})
}
