package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/microsievert/dosimetria/internal/pkg/constants"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return constants.NewCodedError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Binder binds and then validates in one step, so controllers only call
// ctx.Bind on their request structs.
type Binder struct {
	base echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i interface{}, c echo.Context) error {
	if err := b.base.Bind(i, c); err != nil {
		return err
	}
	return c.Validate(i)
}

type sonicSerializer struct{}

func (sonicSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := sonic.ConfigDefault.NewEncoder(c.Response())
	return enc.Encode(i)
}

func (sonicSerializer) Deserialize(c echo.Context, i interface{}) error {
	dec := sonic.ConfigDefault.NewDecoder(c.Request().Body)
	if err := dec.Decode(i); err != nil {
		if err == io.EOF {
			return nil
		}
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
	}
	return nil
}
