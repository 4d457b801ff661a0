package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/microsievert/dosimetria/internal/domain"
	"github.com/microsievert/dosimetria/internal/service/dosimetry"
)

type updateAccumulationsRequest struct {
	CurrentPeriod  string   `json:"current_period" validate:"required"`
	Year           int      `json:"year" validate:"omitempty,gte=2000,lte=2100"`
	PriorPeriods   []string `json:"prior_periods"`
	DosimeterCodes []string `json:"dosimeter_codes"`
	Company        string   `json:"company"`
	DosimeterType  string   `json:"dosimeter_type"`
	IncludeControl bool     `json:"include_control"`
}

type updateAccumulationsResponse struct {
	Updated     int                       `json:"updated"`
	Total       int                       `json:"total"`
	Accumulates []domain.PersonAccumulate `json:"accumulates"`
}

// UpdateAccumulations re-derives ACTUAL, ANNUAL and LIFETIME totals from the
// report history and writes them back onto every person's rows.
func (c *Controller) UpdateAccumulations(ctx echo.Context) error {
	var req updateAccumulationsRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	opts := dosimetry.AggregateOptions{
		CurrentPeriod:  req.CurrentPeriod,
		Year:           req.Year,
		PriorPeriods:   req.PriorPeriods,
		DosimeterCodes: req.DosimeterCodes,
		Company:        req.Company,
		DosimeterType:  req.DosimeterType,
		IncludeControl: req.IncludeControl,
	}

	accumulates, res, err := c.service.UpdateAccumulations(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, updateAccumulationsResponse{
		Updated:     res.Updated,
		Total:       res.Total,
		Accumulates: accumulates,
	})
}
