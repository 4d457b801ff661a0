package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (c *Controller) GetParticipants(ctx echo.Context) error {
	participants, err := c.service.Participants(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, participants)
}
